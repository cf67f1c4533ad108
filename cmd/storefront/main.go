package main

import (
	"log"
	"os"

	"github.com/raumania/storefront/runner"
	_ "github.com/viant/scy/kms/blowfish"
)

func main() {
	if err := runner.Run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
