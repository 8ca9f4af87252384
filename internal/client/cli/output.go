package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/atinyakov/VitalsKeeper/internal/models"
)

// displayLocation is the zone readings are shown in.
var displayLocation = time.Local

const timeLayout = "2006-01-02 15:04"

// hrAlertThreshold is the heart rate, in bpm, at which the latest reading is flagged.
const hrAlertThreshold = 140

func printReadings(w io.Writer, format string, readings []models.Reading) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(readings)
	}

	if len(readings) == 0 {
		_, err := fmt.Fprintln(w, "No readings yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tHEART RATE\tBLOOD PRESSURE\tSPO2\tTEMP")
	for _, rd := range readings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			rd.CreatedAt.In(displayLocation).Format(timeLayout),
			withUnit(rd.HeartRate, " bpm"),
			pressure(rd.Systolic, rd.Diastolic),
			withUnit(rd.Oxygen, "%"),
			withUnit(rd.Temperature, "°C"),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return printLatest(w, readings[len(readings)-1])
}

// printLatest summarises the newest reading and flags a high heart rate.
func printLatest(w io.Writer, rd models.Reading) error {
	_, err := fmt.Fprintf(w, "\nLatest: HR %s, BP %s, SpO2 %s, Temp %s\n",
		withUnit(rd.HeartRate, " bpm"),
		pressure(rd.Systolic, rd.Diastolic),
		withUnit(rd.Oxygen, "%"),
		withUnit(rd.Temperature, "°C"),
	)
	if err != nil {
		return err
	}
	if highHeartRate(rd) {
		_, err = fmt.Fprintf(w, "ALERT: High heart rate detected: %s bpm\n", num(rd.HeartRate))
	}
	return err
}

func highHeartRate(rd models.Reading) bool {
	return rd.HeartRate != nil && *rd.HeartRate >= hrAlertThreshold
}

func printReading(w io.Writer, format string, rd *models.Reading) error {
	if format == "json" {
		return json.NewEncoder(w).Encode(rd)
	}
	_, err := fmt.Fprintf(w, "Saved reading %s at %s: HR %s, BP %s, SpO2 %s, Temp %s\n",
		rd.ID,
		rd.CreatedAt.In(displayLocation).Format(timeLayout),
		withUnit(rd.HeartRate, " bpm"),
		pressure(rd.Systolic, rd.Diastolic),
		withUnit(rd.Oxygen, "%"),
		withUnit(rd.Temperature, "°C"),
	)
	return err
}

func num(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func withUnit(v *float64, unit string) string {
	if v == nil {
		return "-"
	}
	return num(v) + unit
}

func pressure(sys, dia *float64) string {
	if sys == nil && dia == nil {
		return "-"
	}
	return num(sys) + "/" + num(dia)
}
