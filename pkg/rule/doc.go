// Package rule compiles open-action rules and dispatches URLs against them.
//
// Rules live in a line-oriented configuration: a block of match criteria
// followed by one or more action directives, with blocks separated by blank
// lines. Matching a URL walks the blocks in source order and returns the
// actions of the first block whose criteria all hold, with URL-derived
// variables substituted into the action arguments.
package rule
