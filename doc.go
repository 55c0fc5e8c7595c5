// Package repool is a generic asynchronous object pool for Go. It lends
// expensive-to-create resources (typically live network connections) to
// concurrent goroutines and recycles them for reuse, with cooperative
// capacity control, lazy health validation, lifecycle hooks, and live
// resizing.
//
// The hard engineering lives in the generic core under pkg/pool: a
// lock-minimizing checkout path, a release-driven return path, a cancel-safe
// counting semaphore, create/recycle hooks, and correctness under
// cancellation, resizing, retention, and close. Everything else in the
// repository is a thin layer around that core:
//
//   - pkg/pool: the generic managed pool (start here)
//   - pkg/runtime: the runtime handle used to arm deadlines
//   - pkg/syncpool: interact-shim for blocking, non-goroutine-safe clients
//   - pkg/config: YAML pool configuration with environment substitution
//   - pkg/metrics: Prometheus export of pool occupancy
//   - pkg/adapters/...: example managers for PostgreSQL, MySQL, Redis,
//     Kafka, MongoDB, and AMQP
//
// # Quick start
//
//	mgr, err := postgres.NewManager(os.Getenv("DATABASE_URL"), logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p, err := pool.NewBuilder[*pgx.Conn](mgr).
//	    Name("app-db").
//	    MaxSize(16).
//	    Logger(logger).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	obj, err := p.Get(ctx)
//	if err != nil {
//	    return err
//	}
//	defer obj.Release()
//
//	rows, err := (*obj.Value()).Query(ctx, "SELECT 1")
package repool
