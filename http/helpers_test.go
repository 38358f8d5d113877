package http

import (
	"strconv"

	"github.com/ViniZap4/gestor360/auth"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func hashForTest(token string) (string, error) {
	return auth.HashToken(token)
}
