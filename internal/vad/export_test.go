package vad

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// SplitNonSilentWindow exports splitNonSilent with a custom analysis window.
var SplitNonSilentWindow = splitNonSilent

// SegmentsToIntervals exports segmentsToIntervals for testing.
var SegmentsToIntervals = segmentsToIntervals

// CheckWebRTCFrame exports checkWebRTCFrame for testing.
var CheckWebRTCFrame = checkWebRTCFrame

// FrameDBFS exports frameDBFS for testing.
var FrameDBFS = frameDBFS
