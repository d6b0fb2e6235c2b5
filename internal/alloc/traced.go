package alloc

import "github.com/sirupsen/logrus"

// Traced wraps an allocator and logs every call at debug level.
type Traced struct {
	inner Allocator
	log   logrus.FieldLogger
}

// NewTraced wraps inner. A nil logger uses the logrus standard logger.
func NewTraced(inner Allocator, log logrus.FieldLogger) *Traced {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Traced{inner: inner, log: log}
}

// Alloc forwards to the wrapped allocator.
func (t *Traced) Alloc(size int) (Handle, error) {
	h, err := t.inner.Alloc(size)
	entry := t.log.WithField("size", size)
	if err != nil {
		entry.WithError(err).Warn("alloc failed")
		return h, err
	}
	entry.WithField("handle", h).Debug("alloc")
	return h, nil
}

// Lock forwards to the wrapped allocator.
func (t *Traced) Lock(h Handle, op LockOp) ([]byte, error) {
	data, err := t.inner.Lock(h, op)
	entry := t.log.WithFields(logrus.Fields{"handle": h, "op": op.String()})
	if err != nil {
		entry.WithError(err).Warn("lock failed")
		return nil, err
	}
	entry.WithField("bytes", len(data)).Debug("lock")
	return data, nil
}

// Unlock forwards to the wrapped allocator.
func (t *Traced) Unlock(h Handle) {
	t.inner.Unlock(h)
	t.log.WithField("handle", h).Debug("unlock")
}

// Free forwards to the wrapped allocator.
func (t *Traced) Free(h Handle) bool {
	released := t.inner.Free(h)
	t.log.WithFields(logrus.Fields{"handle": h, "released": released}).Debug("free")
	return released
}
