// Package engine runs JavaScript-flavoured regular expressions for retester.
//
// Pattern syntax and matching are delegated to github.com/dlclark/regexp2
// compiled with its ECMAScript option. On top of that engine this package
// provides the JavaScript string-method semantics the report needs:
//   - RegExp flags (d, g, i, m, s, u, v, y) parsing and validation
//   - exec with an explicit lastIndex cursor (global and sticky aware)
//   - String.prototype.replace / replaceAll with $-substitution templates
//   - String.prototype.split with captured groups spliced in
//
// A compiled Regex carries no cursor state. Every operation receives its
// starting position explicitly, so one Regex can be shared by all
// operations of a report and by concurrent callers.
//
// Offsets reported by this package (Match.Index, Match.LastIndex) count
// runes, because regexp2 matches over a rune slice.
package engine
