// Package scanner guards the check-in path of a QR scanning device.
//
// A camera decode loop produces the same payload many times per second.
// Scanner makes sure a new decode is not handed to business logic while the
// previous one is still being processed, and Pool keeps one Scanner per
// operator so independent devices never block each other.
package scanner

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/session"
	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("eventsvc.scanner")

const ErrScanInProgress = errors.ConstError("a scan is already being processed")

// CheckInFunc processes one decoded payload.
type CheckInFunc func(ctx context.Context, sess session.Session, payload string) (models.CheckInOutcome, error)

type Scanner struct {
	checkIn CheckInFunc
	busy    atomic.Bool
	scans   atomic.Int64
	dropped atomic.Int64
}

func New(checkIn CheckInFunc) *Scanner {
	return &Scanner{checkIn: checkIn}
}

// Scan hands payload to the check-in function unless another scan on this
// scanner is in flight, in which case it returns ErrScanInProgress without
// invoking it.
func (s *Scanner) Scan(ctx context.Context, sess session.Session, payload string) (models.CheckInOutcome, error) {
	if !s.busy.CompareAndSwap(false, true) {
		s.dropped.Add(1)
		return "", ErrScanInProgress
	}
	defer s.busy.Store(false)

	s.scans.Add(1)
	return s.checkIn(ctx, sess, payload)
}

type Stats struct {
	Scans   int64 `json:"scans"`
	Dropped int64 `json:"dropped"`
}

func (s *Scanner) Stats() Stats {
	return Stats{Scans: s.scans.Load(), Dropped: s.dropped.Load()}
}

// Pool hands out one Scanner per operator.
type Pool struct {
	checkIn CheckInFunc

	mu       sync.Mutex
	scanners map[string]*Scanner
}

func NewPool(checkIn CheckInFunc) *Pool {
	return &Pool{checkIn: checkIn, scanners: make(map[string]*Scanner)}
}

func (p *Pool) For(operatorID string) *Scanner {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.scanners[operatorID]
	if !ok {
		s = New(p.checkIn)
		p.scanners[operatorID] = s
		logger.Debugf("new scanner for operator %s", operatorID)
	}
	return s
}

// Scan runs payload through the calling operator's scanner.
func (p *Pool) Scan(ctx context.Context, sess session.Session, payload string) (models.CheckInOutcome, error) {
	return p.For(sess.UserID).Scan(ctx, sess, payload)
}
