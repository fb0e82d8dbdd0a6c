package cache

import (
	"encoding/hex"
	"strconv"

	"github.com/zeebo/xxh3"
)

// Key hashes a transaction and its arguments. Arguments are length-prefixed
// so ("ab","c") and ("a","bc") never collide on the input side.
func Key(name string, args []string) string {
	h := xxh3.New()
	h.WriteString(name)
	for _, arg := range args {
		h.WriteString("\x00")
		h.WriteString(strconv.Itoa(len(arg)))
		h.WriteString(":")
		h.WriteString(arg)
	}
	sum := h.Sum128().Bytes()
	return "fv:q:" + hex.EncodeToString(sum[:])
}
