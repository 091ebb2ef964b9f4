// Package pipeline orchestrates file discovery, per-file conversion, and
// batch summary reporting.
//
// Flow of one batch:
//
//	Discover(workdir, ext) → files (sorted)
//	Batch.Run(ctx, files):
//	  ErrNoInputs when files is empty, else
//	  mkdir output dir → lock it → for each file, in order:
//	    Pending → PathResolved   naming.OutputPath + naming.ResolveOutput
//	            → CommandBuilt   ffmpeg.Build
//	            → Running        probe duration (video), ffmpeg.Execute,
//	                             stderr lines → progress.Parser → Reporter
//	            → Completed | Failed
//	  → Summary
//
// A failed job never stops the batch. Cancelling the context kills the
// running encoder; that job fails and the remaining files are not started.
package pipeline
