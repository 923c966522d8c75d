// Command nxfd runs the federated ledger node.
package main

import "github.com/nexaflow/nxfd/internal/cli"

func main() {
	cli.Execute()
}
