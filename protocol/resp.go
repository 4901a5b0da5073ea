// Package protocol implements the line-oriented command protocol: a
// quote-aware tokenizer, RESP-style response encoding, and the command
// handler that drives a Cache.
//
// Responses use a subset of the RESP framings (not full Redis
// compatibility), each terminated by CRLF:
//
//	+OK          simple status
//	-ERR msg     error
//	:n           integer
//	$len\r\ndata bulk string; $-1 is the null bulk (absent value)
package protocol

import "strconv"

// AppendStatus appends a simple status response (+s).
func AppendStatus(b []byte, s string) []byte {
	b = append(b, '+')
	b = append(b, s...)
	return append(b, '\r', '\n')
}

// AppendError appends an error response (-ERR msg).
func AppendError(b []byte, msg string) []byte {
	b = append(b, "-ERR "...)
	b = append(b, msg...)
	return append(b, '\r', '\n')
}

// AppendInt appends an integer response (:n).
func AppendInt(b []byte, n int64) []byte {
	b = append(b, ':')
	b = strconv.AppendInt(b, n, 10)
	return append(b, '\r', '\n')
}

// AppendBulk appends a bulk string response. The length prefix is the byte
// length of s, not its rune count.
func AppendBulk(b []byte, s string) []byte {
	b = append(b, '$')
	b = strconv.AppendInt(b, int64(len(s)), 10)
	b = append(b, '\r', '\n')
	b = append(b, s...)
	return append(b, '\r', '\n')
}

// AppendNullBulk appends the null bulk response ($-1) marking an absent value.
func AppendNullBulk(b []byte) []byte {
	return append(b, "$-1\r\n"...)
}
