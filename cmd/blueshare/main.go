package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/obinexus/blueshare/application"
	"github.com/obinexus/blueshare/config"
	"github.com/obinexus/blueshare/domain/mesh"
	"github.com/obinexus/blueshare/events"
	"github.com/obinexus/blueshare/registry"
)

func main() {
	if len(os.Args) > 2 {
		fmt.Fprintf(os.Stderr, "usage: %s [config.yaml]\n", os.Args[0])
		os.Exit(1)
	}

	// Create a new slog handler with the default PTerm logger
	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)

	// Create a new slog logger with the handler
	logger := slog.New(handler)

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Blue", pterm.FgLightBlue.ToStyle()),
		putils.LettersFromStringWithStyle("Share", pterm.FgDarkGray.ToStyle()),
	).Render()

	cfg := config.Default()
	if len(os.Args) == 2 {
		loaded, err := config.Load(os.Args[1])
		if err != nil {
			logger.Error("failed to load config", "path", os.Args[1], "error", err.Error())
			os.Exit(1)
		}
		cfg = loaded
		pterm.Info.Printfln("Loaded config from %s", os.Args[1])
	}

	ctx := context.Background()
	devices, err := demoDevices(ctx)
	if err != nil {
		logger.Error("failed to build device registry", "error", err.Error())
		os.Exit(1)
	}

	orchestrator := application.NewFromConfig(cfg, events.Slog{Logger: logger})
	session := orchestrator.NewSession(devices)

	pterm.Info.Printfln("Session %s with %d devices", session.ID, len(devices))
	pterm.Print("\n")

	spinner, _ := pterm.DefaultSpinner.Start("Running consensus and settlement pipeline ...")
	result, err := orchestrator.Run(ctx, session)
	if err != nil {
		spinner.Fail()
		switch {
		case errors.Is(err, application.ErrConsensusRejected):
			printConsentPanels(session)
			pterm.Error.Println("A device vetoed the session, aborting")
		case errors.Is(err, application.ErrConsensusPending):
			printConsentPanels(session)
			pterm.Error.Println("Not enough accepting devices, session stays pending")
		case errors.Is(err, application.ErrComplianceFailed):
			printComplianceBox(result.Compliance)
			pterm.Error.Println("Compliance gate failed, session aborted")
		default:
			logger.Error("pipeline failed", "error", err.Error())
		}
		os.Exit(1)
	}
	spinner.Success()

	printConsentPanels(session)
	printTopologyBox(session)
	printAllocationTable(session)
	printSettlementTable(session, result.Payments)
	printComplianceBox(result.Compliance)

	if err := orchestrator.Audit.Verify(); err != nil {
		logger.Error("audit chain verification failed", "error", err.Error())
		os.Exit(1)
	}
	pterm.Success.Printfln("Audit chain verified over %d entries", orchestrator.Audit.Len())
	pterm.Success.Printfln("Session %s operating as %s network", session.ID, session.Topology)
}

// demoDevices builds the reference four-node neighborhood: a router host, two
// paying clients and a marginal relay at the edge of the signal band.
func demoDevices(ctx context.Context) ([]*mesh.Device, error) {
	host, err := mesh.NewDevice("living-room-router", mesh.RoleHost, -65)
	if err != nil {
		return nil, err
	}
	host.BandwidthMbps = 10
	host.BytesSent = 5 << 20
	host.BytesReceived = 2 << 20

	phone, err := mesh.NewDevice("alice-phone", mesh.RoleClient, -68)
	if err != nil {
		return nil, err
	}
	phone.BytesSent = 3 << 20
	phone.BytesReceived = 1 << 20

	laptop, err := mesh.NewDevice("bob-laptop", mesh.RoleClient, -69)
	if err != nil {
		return nil, err
	}
	laptop.BytesSent = 2 << 20
	laptop.BytesReceived = 1 << 20

	relay, err := mesh.NewDevice("hallway-relay", mesh.RoleRelay, -85)
	if err != nil {
		return nil, err
	}
	relay.BytesSent = 2 << 20
	relay.BytesReceived = 1 << 20

	return registry.NewStatic(host, phone, laptop, relay).Devices(ctx)
}
