// Command treeplot renders the dashboard views from the command line.
//
// Usage:
//
//	treeplot summary --species "Pin Oak" --borough Queens --steward 2
//	treeplot bar --out bar.png
//	treeplot map --out map.png [--static]
//	treeplot export --out trees.xlsx
//	treeplot profile
//	treeplot validate
//
// Every command reads the gzip census export named by --dataset (default
// $DATASET_PATH). Selection flags that are omitted take the dashboard's
// opening values.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
