package mocks

import (
	"context"

	"logi-events/internal/database"

	"github.com/jackc/pgx/v5"
)

var _ database.TxManager = (*FakeTxManager)(nil)

// FakeTxManager 直接以 nil tx 執行 fn，記錄 commit 與 rollback 次數
type FakeTxManager struct {
	Commits   int
	Rollbacks int
}

func (f *FakeTxManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if err := fn(nil); err != nil {
		f.Rollbacks++
		return err
	}
	f.Commits++
	return nil
}
