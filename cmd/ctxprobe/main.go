package main

import (
	"log"

	tool "github.com/RRPsystem/wbctx/internal/tools/ctxprobe"
)

func main() {
	if err := tool.NewRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
