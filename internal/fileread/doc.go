// Package fileread loads local data sources for the personal bots:
// markdown note directories, task lists, and CSV habit logs.
//
// Reads go through an afero filesystem so tests can run in memory.
// Missing paths and unreadable files are recorded on the Result rather
// than failing the whole read; a bot decides what an empty result
// means for it.
package fileread
