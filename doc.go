// Package toml parses TOML documents into an insertion-ordered tree of tables
// and arrays, and writes trees back out as TOML or JSON.
//
// Parsing is tolerant: every problem found in a document is reported as a
// *ParseError with its line and column, and the statements that were valid
// are still built into the tree. Values are stored as string, int64,
// float64, bool, time.Time (offset date-times), LocalDateTime, LocalDate,
// LocalTime, *Array and *Table.
//
//	res, err := toml.ParseString(src)
//	if err != nil {
//		return err
//	}
//	if err := res.Err(); err != nil {
//		return err
//	}
//	port, _ := toml.GetAs[int64](res.Table, "server.port")
package toml
