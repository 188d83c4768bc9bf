package ping

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DrC0ns0le/net-ping/internal/measure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEchoer struct {
	mock.Mock
}

func (m *MockEchoer) Echo(ctx context.Context, addr string, timeout time.Duration) (time.Duration, error) {
	args := m.Called(addr, timeout)
	return args.Get(0).(time.Duration), args.Error(1)
}

func TestAverageRTT(t *testing.T) {
	echoer := &MockEchoer{}
	echoer.On("Echo", "192.0.2.1", 500*time.Millisecond).Return(10*time.Millisecond, nil).Once()
	echoer.On("Echo", "192.0.2.1", 500*time.Millisecond).Return(20*time.Millisecond, nil).Once()
	echoer.On("Echo", "192.0.2.1", 500*time.Millisecond).Return(30*time.Millisecond, nil).Once()

	avg, err := NewProber(echoer).AverageRTT(context.Background(), "192.0.2.1", 3, 500*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, int64(20), avg)
	echoer.AssertExpectations(t)
}

func TestAverageRTTTruncatesToMilliseconds(t *testing.T) {
	echoer := &MockEchoer{}
	echoer.On("Echo", "192.0.2.1", time.Second).Return(1500*time.Microsecond, nil).Once()
	echoer.On("Echo", "192.0.2.1", time.Second).Return(2*time.Millisecond, nil).Once()

	avg, err := NewProber(echoer).AverageRTT(context.Background(), "192.0.2.1", 2, time.Second)
	require.NoError(t, err)

	assert.Equal(t, int64(1), avg)
}

func TestAverageRTTStopsOnError(t *testing.T) {
	echoer := &MockEchoer{}
	echoer.On("Echo", "192.0.2.1", time.Second).Return(10*time.Millisecond, nil).Once()
	echoer.On("Echo", "192.0.2.1", time.Second).Return(time.Duration(0), errors.New("network is unreachable")).Once()

	_, err := NewProber(echoer).AverageRTT(context.Background(), "192.0.2.1", 3, time.Second)

	require.Error(t, err)
	assert.ErrorIs(t, err, measure.ErrUnknown)
	assert.Contains(t, err.Error(), "echo 2/3")
	echoer.AssertNumberOfCalls(t, "Echo", 2)
}

func TestAverageRTTNoReply(t *testing.T) {
	echoer := &MockEchoer{}
	echoer.On("Echo", "192.0.2.1", time.Second).Return(time.Duration(0), ErrNoReply).Once()

	_, err := NewProber(echoer).AverageRTT(context.Background(), "192.0.2.1", 1, time.Second)

	assert.ErrorIs(t, err, ErrNoReply)
	assert.Equal(t, measure.UnknownError, measure.KindOf(err))
}
