// Package httpapi is the local JSON surface the browser UI talks to. All
// state behind it lives in the same local store the CLI uses.
package httpapi

import (
	"sync"

	"go.uber.org/zap"

	"daily-quiz/internal/bank"
	"daily-quiz/internal/bankio"
	"daily-quiz/internal/session"
	"daily-quiz/internal/student"
)

type API struct {
	bank     *bank.Store
	students *student.Store
	io       *bankio.Service
	flow     *session.Flow
	log      *zap.Logger

	// At most one in-flight attempt; the device has a single active student.
	mu     sync.Mutex
	active *session.Session
}

func NewAPI(bankStore *bank.Store, studentStore *student.Store, ioService *bankio.Service, flow *session.Flow, log *zap.Logger) *API {
	if log == nil {
		log = zap.NewNop()
	}
	return &API{
		bank:     bankStore,
		students: studentStore,
		io:       ioService,
		flow:     flow,
		log:      log,
	}
}
