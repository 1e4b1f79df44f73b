package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"quicklist/internal/auth"
	"quicklist/internal/repository"
	"quicklist/internal/repository/sqlite"
)

type fixture struct {
	users    UserService
	todos    TodoService
	userRepo repository.UserRepository
	todoRepo repository.TodoRepository
	tokens   *auth.TokenIssuer
	logs     *logtest.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "quicklist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	userRepo := sqlite.NewUserRepository(db)
	todoRepo := sqlite.NewTodoRepository(db)
	require.NoError(t, userRepo.Init(ctx))
	require.NoError(t, todoRepo.Init(ctx))

	hasher, err := auth.NewPasswordHasher(auth.AlgorithmBcrypt, bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenIssuer([]byte("test-secret"), 30*time.Minute)
	require.NoError(t, err)

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	return &fixture{
		users:    NewUserService(userRepo, todoRepo, hasher, tokens, logger),
		todos:    NewTodoService(todoRepo),
		userRepo: userRepo,
		todoRepo: todoRepo,
		tokens:   tokens,
		logs:     hook,
	}
}
