// main is the entry point for the clearance CLI.
package main

import (
	"github.com/huangsam/clearance/cmd"
	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/internal/dao"
)

func main() {
	defer dao.CloseStore()

	if err := cmd.Execute(); err != nil {
		dao.CloseStore()
		contract.LogFatal("Error", err)
	}
}
