// Package driver feeds a protocol schedule to a displacement-controlled
// solver, one increment per analysis step.
//
// The solver is an external collaborator behind the [Solver] interface. The
// driver does not retry failed steps or switch solution algorithms: the first
// failure ends the run and is reported as [Incomplete].
//
// # Example
//
//	s, _ := protocol.ExampleSeven(building).Build()
//	d := driver.New(driver.NewTrackingSolver(), logger)
//	for _, m := range metrics.Defaults() {
//	    d.AddMetric(m)
//	}
//	res, err := d.Run(ctx, s)
//	fmt.Println(res.Summary(141, 1, "inch"))
//
// # Thread Safety
//
// A Driver is NOT safe for concurrent runs. Use [Sweep] to run several
// schedules in parallel, each with its own solver.
package driver
