package main

import (
	"os"
	_ "time/tzdata"

	"elena/residency_alerts/commands"
	"elena/residency_alerts/model"

	"github.com/sirupsen/logrus"
)

func main() {
	rootCmd := commands.New(&model.Config{})

	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
