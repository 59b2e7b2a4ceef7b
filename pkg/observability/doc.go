/*
Package observability turns engine and dispatcher lifecycle hooks into
Prometheus metrics and structured debug logs.

	m, err := observability.NewMetrics(prometheus.NewRegistry())
	bot := shopbot.New(
		shopbot.WithLifecycleHooks(m.Hooks()),
		shopbot.WithLifecycleHooks(observability.LoggingHooks(logger)),
	)
*/
package observability
