package exception

import "github.com/needleworks/INK-BookingService/pkg/txmanager"

// DBExecutor интерфейс для работы с БД (поддерживает *sql.DB и *sql.Tx)
type DBExecutor = txmanager.Executor
