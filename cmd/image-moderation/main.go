package main

import (
	"context"
	"os"

	"opencsg.com/image-moderation/cmd/image-moderation/cmd"
)

func main() {
	command := cmd.RootCmd
	if err := command.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
