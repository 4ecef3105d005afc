// Package sortnetopt computes lower bounds on sorting networks.
//
// For a channel count n it derives the successive survivor sets R_k of
// symmetry-reduced partial networks: each layer extends every survivor
// with every admissible parallel comparator layer, then prunes the pool to
// the candidates not subsumed by any other (no channel relabeling maps a
// survivor's reachable outputs into theirs). The |R_k| sequence certifies
// that no shorter network sorts, up to channel permutation.
//
// # Quick Start
//
//	s := sortnetopt.New(
//		sortnetopt.WithWorkers(8),
//		sortnetopt.WithLogger(sortnetopt.NewTextLogger(slog.LevelInfo)),
//	)
//	res, err := s.Run(ctx, 5)
//	if err != nil {
//		// ...
//	}
//	for _, layer := range res.Layers {
//		fmt.Println(layer.Layer, layer.Survivors)
//	}
//
// The computation is a pure batch: no persisted state, no checkpoints. An
// interrupted run restarts from layer 0.
package sortnetopt
