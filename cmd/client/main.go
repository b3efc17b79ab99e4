package main

import (
	"os"

	"github.com/MKhiriev/go-salon-sync/internal/client"
	"github.com/MKhiriev/go-salon-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := client.SignalContext()
	defer stop()

	root := client.NewRootCommand(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
	if err := client.ExecuteContext(ctx, root); err != nil {
		stop()
		os.Exit(1)
	}
}
