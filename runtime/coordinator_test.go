package runtime_test

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"wegetchat/domain"
	"wegetchat/domain/event"
	"wegetchat/errors"
	"wegetchat/mocks"
	"wegetchat/repositories"
	"wegetchat/runtime"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func addUser(id string) func(tx *runtime.Tx) error {
	return func(tx *runtime.Tx) error {
		tx.Snapshot.Users = append(tx.Snapshot.Users, domain.User{ID: id, Username: id, UsernameLower: id})
		tx.Emit(event.UserRegistered{UserID: id, Username: id})
		return nil
	}
}

func TestCoordinator_Mutate(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	t.Run("should persist then publish the new snapshot and its events", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockISnapshotStore(ctrl)
		publisher := mocks.NewMockEventPublisher(ctrl)
		coordinator := runtime.NewCoordinator(log, store, domain.NewSnapshot(), publisher)

		gomock.InOrder(
			store.EXPECT().Save(gomock.Any()).DoAndReturn(func(s *domain.Snapshot) error {
				// Not visible to readers before the save returns
				req.Empty(coordinator.Snapshot().Users)
				req.Len(s.Users, 1)
				return nil
			}),
			publisher.EXPECT().Publish(event.UserRegistered{UserID: "u1", Username: "u1"}).Times(1),
		)

		req.NoError(coordinator.Mutate("register", addUser("u1")))
		req.Len(coordinator.Snapshot().Users, 1)
		req.Equal(uint64(1), coordinator.Version())
	})

	t.Run("should roll back and report a persistence error when the save fails", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockISnapshotStore(ctrl)
		publisher := mocks.NewMockEventPublisher(ctrl)
		initial := domain.NewSnapshot()
		initial.Users = append(initial.Users, domain.User{ID: "u0"})
		coordinator := runtime.NewCoordinator(log, store, initial, publisher)

		diskFull := stderrors.New("no space left on device")
		store.EXPECT().Save(gomock.Any()).Return(diskFull).Times(1)
		publisher.EXPECT().Publish(gomock.Any()).Times(0)

		err := coordinator.Mutate("register", addUser("u1"))
		req.ErrorIs(err, errors.ErrPersistence)
		req.ErrorIs(err, diskFull)
		req.Equal(errors.ErrPersistence.Message, errors.Public(err).Message)
		req.Len(coordinator.Snapshot().Users, 1)
		req.Equal("u0", coordinator.Snapshot().Users[0].ID)
		req.Zero(coordinator.Version())
	})

	t.Run("should discard the working copy when the mutation fails", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockISnapshotStore(ctrl)
		coordinator := runtime.NewCoordinator(log, store, domain.NewSnapshot(), nil)

		store.EXPECT().Save(gomock.Any()).Times(0)

		err := coordinator.Mutate("register", func(tx *runtime.Tx) error {
			tx.Snapshot.Users = append(tx.Snapshot.Users, domain.User{ID: "half"})
			return errors.ErrUsernameTaken
		})
		req.ErrorIs(err, errors.ErrUsernameTaken)
		req.Empty(coordinator.Snapshot().Users)
	})

	t.Run("should neither save nor publish an unchanged mutation", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockISnapshotStore(ctrl)
		publisher := mocks.NewMockEventPublisher(ctrl)
		coordinator := runtime.NewCoordinator(log, store, domain.NewSnapshot(), publisher)

		store.EXPECT().Save(gomock.Any()).Times(0)
		publisher.EXPECT().Publish(gomock.Any()).Times(0)

		req.NoError(coordinator.Mutate("mark_read", func(tx *runtime.Tx) error {
			tx.Unchanged()
			return nil
		}))
		req.Zero(coordinator.Version())
	})
}

func TestApply_ReturnsZeroValueOnFailure(t *testing.T) {
	req := require.New(t)
	coordinator := runtime.NewCoordinator(slog.Default(), repositories.NewMemorySnapshotStore(), nil, nil)

	n, err := runtime.Apply(coordinator, "count", func(tx *runtime.Tx) (int, error) {
		return 42, errors.ErrEmptyMessage
	})
	req.ErrorIs(err, errors.ErrEmptyMessage)
	req.Zero(n)

	n, err = runtime.Apply(coordinator, "count", func(tx *runtime.Tx) (int, error) {
		tx.Snapshot.Users = append(tx.Snapshot.Users, domain.User{ID: "u1"})
		return len(tx.Snapshot.Users), nil
	})
	req.NoError(err)
	req.Equal(1, n)
}

func TestCoordinator_SerializesConcurrentMutations(t *testing.T) {
	req := require.New(t)
	store := repositories.NewMemorySnapshotStore()
	coordinator := runtime.NewCoordinator(slog.Default(), store, nil, nil)

	const writers = 50
	var wg sync.WaitGroup
	stop := make(chan struct{})
	torn := make(chan string, 1)

	// Every mutation appends a user and a notification together,
	// readers must never observe one without the other.
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			s := coordinator.Snapshot()
			if len(s.Users) != len(s.Notifications) {
				select {
				case torn <- fmt.Sprintf("%d users, %d notifications", len(s.Users), len(s.Notifications)):
				default:
				}
			}
		}
	}()

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("u%d", i)
			err := coordinator.Mutate("register", func(tx *runtime.Tx) error {
				tx.Snapshot.Users = append(tx.Snapshot.Users, domain.User{ID: id})
				tx.Snapshot.Notifications = append(tx.Snapshot.Notifications, domain.Notification{ID: "n-" + id, UserID: id})
				return nil
			})
			req.NoError(err)
		}(i)
	}
	wg.Wait()
	close(stop)

	select {
	case msg := <-torn:
		req.Fail("reader observed a partial mutation", msg)
	default:
	}

	req.Len(coordinator.Snapshot().Users, writers)
	req.Equal(uint64(writers), coordinator.Version())
	// One save per committed mutation
	req.Equal(writers, store.Saves())

	saved, err := store.Load()
	req.NoError(err)
	req.Len(saved.Users, writers)
}
