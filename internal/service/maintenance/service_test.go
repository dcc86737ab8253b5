package maintenance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeExpirer struct {
	calls int
	n     int
	err   error
}

func (f *fakeExpirer) ExpireStalePending(context.Context) (int, error) {
	f.calls++
	return f.n, f.err
}

type fakePurger struct{ calls int }

func (f *fakePurger) Purge(context.Context) int {
	f.calls++
	return 2
}

func TestRun_PurgesAndExpires(t *testing.T) {
	expirer := &fakeExpirer{n: 3}
	purger := &fakePurger{}

	NewService(expirer, purger, nopLogger{}).Run()

	assert.Equal(t, 1, expirer.calls)
	assert.Equal(t, 1, purger.calls)
}

func TestRun_OptionalParts(t *testing.T) {
	purger := &fakePurger{}
	NewService(nil, purger, nopLogger{}).RunContext(context.Background())
	assert.Equal(t, 1, purger.calls)

	expirer := &fakeExpirer{err: errors.New("db down")}
	assert.NotPanics(t, func() {
		NewService(expirer, nil, nopLogger{}).RunContext(context.Background())
	})
	assert.Equal(t, 1, expirer.calls)
}
