package main

import "github.com/goliatone/go-auth-rbac/cmd/authctl/cmd"

func main() {
	cmd.Execute()
}
