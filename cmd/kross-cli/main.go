package main

import (
	"krossbooking/cmd/kross-cli/commands"
	"krossbooking/lib/serviceutil"
	_ "time/tzdata"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()
	err := commands.ExecuteContext(ctx)
	if err != nil {
		cancel()
		serviceutil.Fatal("kross-cli failed", err)
	}
}
