// Package numword parses English cardinal-number phrases ("twelve",
// "twenty-one") into integers.
//
// It backs the day resolver: solution packages are named after their
// puzzle day, so the day can be derived from the package name when no
// explicit --day is given. Parsing is a pure function over a fixed word
// table and fails closed on anything it does not recognise.
package numword
