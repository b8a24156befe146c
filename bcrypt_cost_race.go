//go:build race

package auth

import "golang.org/x/crypto/bcrypt"

// race builds hash many times slower; the library default keeps the
// concurrent registry tests inside their timeouts
func passwordHashCost() int {
	return bcrypt.DefaultCost
}
