package api

import "github.com/ViniZap4/gestor360/auth"

func hashToken(token string) (string, error) {
	return auth.HashToken(token)
}
