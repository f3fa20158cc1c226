// Package health provides liveness and readiness probes for watch mode.
//
// Liveness always reports ok while the process runs. Readiness runs every
// registered check concurrently, each bounded by the checker timeout, and
// answers 503 when any of them fails.
//
// Components that flip between states register a Condition:
//
//	schemaReady := health.NewCondition("schema not loaded")
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("schema", schemaReady.Check)
//	health.Register(mux, checker, cfg.Telemetry.Health)
//
//	schemaReady.Set(nil) // once the schema is parsed
package health
