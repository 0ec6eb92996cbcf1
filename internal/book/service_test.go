package book

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var zeroTime time.Time

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	t.Run("all copies start available", func(t *testing.T) {
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
			b.ID = 10
			return nil
		})

		b, err := service.Create(context.Background(), Input{Title: "  Dune ", Author: "Herbert", Genre: "Science Fiction", TotalCopies: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(10), b.ID)
		assert.Equal(t, "Dune", b.Title)
		assert.Equal(t, 3, b.AvailableCopies)
	})

	t.Run("rejects zero copies", func(t *testing.T) {
		_, err := service.Create(context.Background(), Input{Title: "Dune", TotalCopies: 0})
		assert.ErrorIs(t, err, ErrInvalidCopies)
	})
}

func TestService_Update_AppliesDelta(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	stored := Book{ID: 1, Title: "Old", TotalCopies: 4, AvailableCopies: 1}
	mockRepo.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, fn func(Book) (Book, error)) (Book, error) {
			return fn(stored)
		})

	b, err := service.Update(context.Background(), 1, Input{Title: "New", TotalCopies: 6})
	require.NoError(t, err)
	assert.Equal(t, "New", b.Title)
	assert.Equal(t, 6, b.TotalCopies)
	assert.Equal(t, 3, b.AvailableCopies)
}

func TestService_AdjustTotalCopies_RejectsBelowOnLoan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	stored := Book{ID: 1, TotalCopies: 4, AvailableCopies: 0}
	mockRepo.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, fn func(Book) (Book, error)) (Book, error) {
			return fn(stored)
		})

	_, err := service.AdjustTotalCopies(context.Background(), 1, 3)
	assert.ErrorIs(t, err, ErrInvalidCopies)
}

func TestService_List_NormalizesPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	mockRepo.EXPECT().List(gomock.Any(), Query{Keyword: "x", Limit: DefaultPageSize}).Return([]Book{}, 0, nil)

	_, _, err := service.List(context.Background(), Query{Keyword: " x ", Limit: 1000, Offset: -3})
	require.NoError(t, err)
}
