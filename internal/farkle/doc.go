// Package farkle implements the rules engine for a press-your-luck dice
// game in the Farkle family. It covers the scoring evaluator and the
// turn state machine: rolling, setting aside scoring dice, re-rolling or
// banking, bust and full-clear handling, player rotation, and win
// detection.
//
// The package is headless. Randomness, configuration, persistence, and
// presentation are collaborators injected at construction; the engine
// mutates only its own in-memory state and reports changes through
// operation outcomes and read-only snapshots.
package farkle
