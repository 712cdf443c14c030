// Package gocube turns camera scans of a physical Rubik's cube into a
// solution and walks the user through it one confirmed move at a time.
//
// # Pipeline
//
//   - Color classification: every sampled sticker is labelled with the
//     nearest of the six center colors in a normalized HSV space.
//   - State building: six classified faces become a 54-letter facelet
//     string, validated for distinct centers and nine stickers per color.
//   - Solving: a Solver bounds an Engine by max_search_time and returns a
//     normalized move sequence.
//   - Guidance: a Session shows one move at a time and advances only when
//     the user confirms it.
//
// # Quick Start
//
//	set := gocube.NewScanSet()
//	for _, f := range gocube.FaceOrder {
//	    set.Add(f, samples[f]) // nine HSV samples per face
//	}
//
//	state, err := gocube.BuildState(set)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sol, err := gocube.Solve(ctx, state.String(), gocube.WithMaxSearchTime(5*time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	session, _ := gocube.NewSession(sol, gocube.WithStartState(state))
//	for {
//	    ins, ok := session.Instruction()
//	    if !ok {
//	        break
//	    }
//	    fmt.Printf("Step %d/%d: %s\n", ins.Step, ins.Total, ins.Move)
//	    waitForSpace()
//	    session.Confirm()
//	}
//
// # Standalone Cube Simulation
//
// The Cube type models the facelets without any camera:
//
//	cube := gocube.NewCube()
//	cube.ApplyMoves(gocube.SexyMove)
//	fmt.Println(cube.State())
//
// # Errors
//
// All failures wrap one of the sentinel errors in this package, such as
// ErrInvalidColorDistribution or ErrSolverTimeout; use errors.Is and
// errors.As to inspect them.
package gocube
