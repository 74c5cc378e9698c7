// Package storage keeps ewucal's local files: exported calendars and the
// revision snapshot used by `ewucal watch`.
//
// Exports are written as "<semester> - <revision>.ics" with a JSON record beside
// them. The snapshot (snapshot.json) maps each calendar path to the revision
// date last seen for it. The default location is ~/.local/share/ewucal/.
package storage
