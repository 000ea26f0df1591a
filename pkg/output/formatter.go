package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lcalzada-xor/rxss/pkg/models"
)

// Theme colours
const (
	cPurple      = "\x1b[38;5;129m"
	cLightPurple = "\x1b[38;5;141m"
	cDarkPurple  = "\x1b[38;5;93m"
	cRed         = "\x1b[38;5;196m"
	cOrange      = "\x1b[38;5;214m"
	cReset       = "\x1b[0m"
)

// Format returns the formatted report string based on the selected format
func Format(report *models.ScanReport, format string) string {
	if report == nil {
		return ""
	}

	switch format {
	case "json":
		output, err := json.Marshal(report)
		if err != nil {
			// Return error as JSON instead of empty string
			return fmt.Sprintf("{\"error\":\"failed to marshal report: %v\"}", err)
		}
		return string(output)

	case "url":
		// One test URL per finding, for piping into other tools
		urls := make([]string, 0, len(report.Vulnerabilities))
		for _, v := range report.Vulnerabilities {
			urls = append(urls, v.TestURL)
		}
		return strings.Join(urls, "\n")

	default:
		return formatHuman(report)
	}
}

func formatHuman(report *models.ScanReport) string {
	var sb strings.Builder

	if report.Status == models.StatusAborted {
		sb.WriteString(fmt.Sprintf("\n%s[!] Scan aborted, results are partial%s\n", cRed, cReset))
	}

	sb.WriteString(fmt.Sprintf("\n%s[+] Scan Report%s\n", cPurple, cReset))
	sb.WriteString(fmt.Sprintf("    %sID:%s         %s%s%s\n", cDarkPurple, cReset, cLightPurple, report.ID, cReset))
	sb.WriteString(fmt.Sprintf("    %sTargets:%s    %s%s%s\n", cDarkPurple, cReset, cLightPurple, report.URL, cReset))
	sb.WriteString(fmt.Sprintf("    %sScan Time:%s  %s%s%s\n", cDarkPurple, cReset, cLightPurple, report.ScanTime.Format("2006-01-02 15:04:05"), cReset))
	sb.WriteString(fmt.Sprintf("    %sFindings:%s   %s%d%s\n", cDarkPurple, cReset, cLightPurple, len(report.Vulnerabilities), cReset))

	for _, v := range report.Vulnerabilities {
		sb.WriteString(fmt.Sprintf("\n%s[+] %s%s\n", cPurple, v.Type, cReset))
		sb.WriteString(fmt.Sprintf("    %sURL:%s        %s%s%s\n", cDarkPurple, cReset, cLightPurple, v.TestURL, cReset))

		if v.StatusCode != 0 {
			// Add HTTP Status with color coding
			statusColor := cLightPurple
			if v.StatusCode >= 400 {
				statusColor = cRed
			} else if v.StatusCode >= 300 {
				statusColor = cOrange
			}
			sb.WriteString(fmt.Sprintf("    %sHTTP Status:%s %s%d%s\n", cDarkPurple, cReset, statusColor, v.StatusCode, cReset))
		}

		sb.WriteString(fmt.Sprintf("    %sSeverity:%s   %s%s%s\n", cDarkPurple, cReset, cRed, v.Severity, cReset))
		sb.WriteString(fmt.Sprintf("    %sPayload:%s    %s%s%s\n", cDarkPurple, cReset, cLightPurple, v.Payload, cReset))
		if v.Context != "" {
			sb.WriteString(fmt.Sprintf("    %sContext:%s    %s%s%s\n", cDarkPurple, cReset, cLightPurple, v.Context, cReset))
		}
		if v.Element != "" {
			sb.WriteString(fmt.Sprintf("    %sElement:%s    %s%s%s\n", cDarkPurple, cReset, cLightPurple, v.Element, cReset))
		}
	}

	if len(report.Vulnerabilities) > 1 {
		sb.WriteString(summaryTable(report.Vulnerabilities))
	}
	return sb.String()
}

// summaryTable lists findings per payload in aligned columns.
func summaryTable(vulns []models.Vulnerability) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n%s[+] Summary%s\n", cPurple, cReset))

	// Determine column widths
	maxURL := 3
	maxPayload := 7
	maxCtx := 7
	for _, v := range vulns {
		if len(v.TestURL) > maxURL {
			maxURL = len(v.TestURL)
		}
		if len(v.Payload) > maxPayload {
			maxPayload = len(v.Payload)
		}
		if len(v.Context) > maxCtx {
			maxCtx = len(v.Context)
		}
	}
	if maxURL > 50 {
		maxURL = 50
	}
	if maxPayload > 40 {
		maxPayload = 40
	}

	rowFmt := fmt.Sprintf("    %s%%-%ds %%-%ds %%-%ds%s\n", cDarkPurple, maxURL, maxPayload, maxCtx, cReset)
	sb.WriteString(fmt.Sprintf(rowFmt, "URL", "PAYLOAD", "CONTEXT"))
	sb.WriteString(fmt.Sprintf(rowFmt, strings.Repeat("-", maxURL), strings.Repeat("-", maxPayload), strings.Repeat("-", maxCtx)))

	for _, v := range vulns {
		ctx := string(v.Context)
		if ctx == "" {
			ctx = "-"
		}
		sb.WriteString(fmt.Sprintf(rowFmt, truncate(v.TestURL, maxURL), truncate(v.Payload, maxPayload), ctx))
	}
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
