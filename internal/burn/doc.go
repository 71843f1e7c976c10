// Package burn hard-burns SubRip captions into a video with ffmpeg.
//
// Burner owns the ffmpeg invocation: it escapes the subtitle path for the
// filtergraph, writes to a hidden sibling of the destination, checks the exit
// status, and renames the result into place only on success. An advisory lock
// next to the destination keeps two runs from writing the same file.
//
// Service strings the whole job together: preflight checks, an optional
// ffprobe pass, caption conversion, SRT sanity checks, and the burn itself.
package burn
