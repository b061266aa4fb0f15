// Package canon normalizes document and remote values into one canonical
// representation so that diffs only report semantic changes.
//
// Two values are equal when their canonical JSON encodings are byte-equal.
// The encoding:
//   - sorts object keys by UTF-16 code units
//   - NFC-normalizes every string
//   - disables HTML escaping
//   - prints integral numbers without a fractional part
//
// The same rules apply to both sides of a comparison, so a desired value
// decoded from YAML and a remote value decoded from JSON compare equal even
// though their Go types differ (int vs float64, []string vs []any).
package canon
