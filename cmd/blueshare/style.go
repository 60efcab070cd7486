package main

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/obinexus/blueshare/compliance"
	"github.com/obinexus/blueshare/domain/mesh"
)

func consentColor(state mesh.ConsentState) string {
	switch state {
	case mesh.ConsentAccept:
		return pterm.LightGreen(string(state))
	case mesh.ConsentReject:
		return pterm.LightRed(string(state))
	default:
		return pterm.LightYellow(string(state))
	}
}

func printConsentPanels(s *mesh.Session) {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	var panels []pterm.Panel
	for _, d := range s.Devices {
		state := "no vote"
		entropy := ""
		if d.Consent != nil {
			state = consentColor(d.Consent.State)
			if d.Consent.State == mesh.ConsentAmbiguous {
				entropy = pterm.Sprintfln("Entropy: %.2f bits", d.Consent.Entropy)
			}
		}
		info := pterm.Sprintfln("Role: %s\nRSSI: %d dBm\n%s%s", d.Role, d.RSSI, state, entropy)
		panels = append(panels, pterm.Panel{Data: pbox.WithTitle(d.Name).WithTitleTopLeft().Sprint(info)})
	}
	pterm.DefaultPanel.WithPanels([][]pterm.Panel{panels}).Render()
}

func printTopologyBox(s *mesh.Session) {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	info := pterm.Sprintfln("Topology: %s", pterm.LightCyan(string(s.Topology)))
	if s.Plan != nil {
		for _, d := range s.Devices {
			if parent := s.Plan.Parent[d.ID]; parent != "" {
				if p := s.DeviceByID(parent); p != nil {
					info += pterm.Sprintfln("%s attaches to %s", d.Name, p.Name)
				}
			}
		}
	}
	pterm.Println(pbox.WithTitle(pterm.LightCyan("|TOPOLOGY|")).WithTitleTopCenter().Sprint(info))
}

func printAllocationTable(s *mesh.Session) {
	rows := pterm.TableData{{"Device", "Role", "Usage (MB)", "Fair Share (Mbps)", "Cost (USD)"}}
	for _, d := range s.Devices {
		rows = append(rows, []string{
			d.Name,
			string(d.Role),
			fmt.Sprintf("%.1f", d.MBUsed()),
			fmt.Sprintf("%.2f", s.FairShareMbps),
			fmt.Sprintf("%.6f", d.BalanceUSD),
		})
	}
	rows = append(rows, []string{"total", "", "", fmt.Sprintf("%.2f", s.TotalBandwidthMbps), fmt.Sprintf("%.6f", s.TotalCostUSD)})
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	pterm.Println()
}

func printSettlementTable(s *mesh.Session, payments map[string]*mesh.PaymentRecord) {
	if len(payments) == 0 {
		pterm.Info.Println("No balances to settle")
		return
	}
	rows := pterm.TableData{{"Device", "Invoice", "Satoshi", "USD", "Status"}}
	for id, rec := range payments {
		name := id
		if d := s.DeviceByID(id); d != nil {
			name = d.Name
		}
		rows = append(rows, []string{
			name,
			rec.Invoice,
			fmt.Sprintf("%d", rec.AmountSatoshi),
			fmt.Sprintf("%.6f", rec.AmountUSD),
			string(rec.Status),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	pterm.Println()
}

func checkMark(ok bool) string {
	if ok {
		return pterm.LightGreen("pass")
	}
	return pterm.LightRed("fail")
}

func printComplianceBox(r compliance.Report) {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	info := pterm.Sprintfln("Transparency: %s\nFairness: %s\nPrivacy: %s\nAccessibility: %s",
		checkMark(r.Transparency), checkMark(r.Fairness), checkMark(r.Privacy), checkMark(r.Accessibility))
	title := pterm.LightGreen("|COMPLIANCE|")
	if !r.Passed() {
		title = pterm.LightRed("|COMPLIANCE|")
	}
	pterm.Println(pbox.WithTitle(title).WithTitleTopCenter().Sprint(info))
}
