package display

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/backmassage/shrinkwrap/internal/pipeline"
	"github.com/backmassage/shrinkwrap/internal/preset"
	"github.com/backmassage/shrinkwrap/internal/term"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// PresetTable lists the preset catalog.
func PresetTable() string {
	headers := []string{"#", "Name", "Speed", "Rate control", "Audio"}
	var rows [][]string
	for _, p := range preset.All() {
		audio := "-"
		if a := p.Params.Audio; a != nil {
			audio = a.Codec + " " + a.Bitrate
		}
		rows = append(rows, []string{
			strconv.Itoa(int(p.ID)),
			p.Name,
			p.Params.Speed,
			rateLabel(p.Params.Rate),
			audio,
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight})
}

func rateLabel(rc preset.RateControl) string {
	switch r := rc.(type) {
	case preset.VBR:
		return fmt.Sprintf("vbr q%d %s (max %s, buf %s)", r.Quality, r.Bitrate, r.MaxRate, r.BufSize)
	case preset.Lossless:
		return "lossless (qp 0)"
	default:
		return "-"
	}
}

// FormatTable lists the selectable output formats with their menu numbers.
func FormatTable() string {
	headers := []string{"#", "Format", "Kind", "Codec"}
	var rows [][]string
	for i, f := range preset.Formats() {
		codec := "h264_nvenc / libx264"
		if f.Kind() == preset.KindAudio {
			ap := preset.AudioProfileFor(string(f))
			codec = ap.Codec
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), string(f), f.Kind().String(), codec})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight})
}

// SummaryTable renders one row per job result.
func SummaryTable(sum *pipeline.Summary) string {
	headers := []string{"#", "File", "Status", "Output", "Time", "Size", "Ratio"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight}

	rows := make([][]string, 0, len(sum.Results))
	for _, r := range sum.Results {
		status := term.Paint(term.Green, "done")
		size, ratio := FormatBytes(r.InputBytes)+" -> "+FormatBytes(r.OutputBytes), fmt.Sprintf("%d%%", r.Ratio())
		if r.State == pipeline.StateFailed {
			status = term.Paint(term.Red, "failed")
			size, ratio = FormatBytes(r.InputBytes), "-"
		}
		out := "-"
		if r.Output != "" {
			out = filepath.Base(r.Output)
		}
		rows = append(rows, []string{
			strconv.Itoa(r.Index),
			filepath.Base(r.Input),
			status,
			out,
			FormatElapsed(r.Elapsed),
			size,
			ratio,
		})
	}
	return renderTable(headers, rows, aligns)
}

// InspectTable renders probed inputs with bitrate outlier flags.
func InspectTable(infos []pipeline.InputInfo) string {
	headers := []string{"File", "Codec", "Resolution", "Duration", "Size", "Bitrate", ""}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight}

	rows := make([][]string, 0, len(infos))
	for _, in := range infos {
		name := filepath.Base(in.Path)
		if in.Err != nil {
			rows = append(rows, []string{name, "-", "-", "-", "-", "-", term.Paint(term.Red, "probe failed")})
			continue
		}
		codec := in.Codec
		if codec == "" {
			codec = "audio"
		}
		duration := "--:--:--"
		if in.Duration > 0 {
			duration = FormatClock(in.Duration)
		}
		rows = append(rows, []string{
			name,
			codec,
			in.Resolution,
			duration,
			FormatBytes(in.Size),
			FormatBitrateLabel(in.BitrateKbps),
			formatFlag(in.Class),
		})
	}
	return renderTable(headers, rows, aligns)
}

func formatFlag(class string) string {
	switch class {
	case pipeline.ClassExtreme:
		return term.Paint(term.Red, "[!]")
	case pipeline.ClassOutlier:
		return term.Paint(term.Orange, "[*]")
	default:
		return ""
	}
}
