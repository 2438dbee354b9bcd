// logviz - Hardware Log Visualization Tool
//
// logviz turns hardware-monitoring log exports into interactive HTML
// charts, grouping related sensor channels into toggleable panels.
package main

import (
	"os"

	"github.com/hwmon-tools/logviz/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
