package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockHoldReleaser はHoldReleaserのモック
type MockHoldReleaser struct {
	mock.Mock
}

func (m *MockHoldReleaser) ReleaseExpiredHolds(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestNewExpiredHoldCleaner(t *testing.T) {
	mockService := new(MockHoldReleaser)
	interval := 1 * time.Minute

	cleaner := NewExpiredHoldCleaner(mockService, interval)

	assert.NotNil(t, cleaner)
	assert.Equal(t, interval, cleaner.interval)
	assert.NotNil(t, cleaner.stopCh)
	assert.NotNil(t, cleaner.doneCh)
}

func TestExpiredHoldCleaner_StopChannels(t *testing.T) {
	mockService := new(MockHoldReleaser)
	cleaner := NewExpiredHoldCleaner(mockService, 1*time.Second)

	// チャンネルが初期化されていることを確認
	assert.NotNil(t, cleaner.stopCh)
	assert.NotNil(t, cleaner.doneCh)

	select {
	case <-cleaner.stopCh:
		t.Fatal("stopCh should not be closed initially")
	default:
		// 期待通り
	}
}

func TestExpiredHoldCleaner_Sweep(t *testing.T) {
	t.Run("正常に掃除が実行される", func(t *testing.T) {
		mockService := new(MockHoldReleaser)
		mockService.On("ReleaseExpiredHolds", mock.Anything).Return(5, nil)

		cleaner := NewExpiredHoldCleaner(mockService, 1*time.Minute)
		cleaner.sweep(context.Background())

		mockService.AssertExpectations(t)
	})

	t.Run("解放対象がない場合も正常に動作する", func(t *testing.T) {
		mockService := new(MockHoldReleaser)
		mockService.On("ReleaseExpiredHolds", mock.Anything).Return(0, nil)

		cleaner := NewExpiredHoldCleaner(mockService, 1*time.Minute)
		cleaner.sweep(context.Background())

		mockService.AssertExpectations(t)
	})

	t.Run("エラーが発生しても継続する", func(t *testing.T) {
		mockService := new(MockHoldReleaser)
		mockService.On("ReleaseExpiredHolds", mock.Anything).Return(0, assert.AnError)

		cleaner := NewExpiredHoldCleaner(mockService, 1*time.Minute)

		// パニックしないことを確認
		cleaner.sweep(context.Background())

		mockService.AssertExpectations(t)
	})
}

func TestExpiredHoldCleaner_StartStop(t *testing.T) {
	t.Run("開始と停止が正常に動作する", func(t *testing.T) {
		mockService := new(MockHoldReleaser)
		mockService.On("ReleaseExpiredHolds", mock.Anything).Return(0, nil).Maybe()

		cleaner := NewExpiredHoldCleaner(mockService, 50*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go cleaner.Start(ctx)

		time.Sleep(120 * time.Millisecond)

		cleaner.Stop()

		select {
		case <-cleaner.doneCh:
			// 正常に終了
		case <-time.After(1 * time.Second):
			t.Error("cleaner did not stop in time")
		}
	})

	t.Run("コンテキストキャンセルで停止する", func(t *testing.T) {
		mockService := new(MockHoldReleaser)
		mockService.On("ReleaseExpiredHolds", mock.Anything).Return(0, nil).Maybe()

		cleaner := NewExpiredHoldCleaner(mockService, 50*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan struct{})
		go func() {
			cleaner.Start(ctx)
			close(done)
		}()

		time.Sleep(80 * time.Millisecond)
		cancel()

		select {
		case <-done:
			// 正常に終了
		case <-time.After(1 * time.Second):
			t.Error("cleaner did not stop after context cancel")
		}
	})
}
