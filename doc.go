// Package decl edits personal tax declaration documents stored in the
// legacy length-prefixed "DLSG" record format.
//
// A document is a header embedding the declaration year, an ordered list
// of records, and a two-byte footer sentinel. Each record is a type tag
// followed by data fields; every field is framed by a 4-digit decimal
// character count. The package parses that stream into a [Document],
// exposes typed views over the records it understands, and rewrites the
// foreign-income block in place while preserving every untouched byte.
package decl
