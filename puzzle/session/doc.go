// Package session manages the lifecycle of puzzle sessions.
//
// A session binds a board to a short identifier so transports can
// address it across requests. The Manager keeps sessions in memory
// and, when constructed with a SessionPersistence, mirrors them to
// storage. Persisted sessions are stored as a replayable record: the
// configuration ID plus the applied move list. Loading rebuilds the
// board from the configuration and replays the moves, so a record is
// valid exactly when its moves still replay cleanly.
package session
