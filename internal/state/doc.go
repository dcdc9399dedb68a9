// Package state holds the day currently loaded by the browse viewer.
//
// Reloads run as bubbletea commands off the update loop, so the Store guards
// its Snapshot with an RWMutex and hands out copies. A failed reload keeps the
// previous day on screen and records the error; two failures in a row mark
// the source offline, which matters mostly for remote sources.
package state
