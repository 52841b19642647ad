package gpio

import (
	"github.com/fedddot/mcu-client-go/protocol"
	"github.com/fedddot/mcu-client-go/rpcclient"
)

// Delay issues a DELAY request for ms milliseconds and decodes the
// report for failure only. DELAY is named in spec.md §6's wire schema
// but left unwired by any [MODULE] there; it is a plain RPC helper, not
// a proxy, since it carries no identity or lifecycle of its own.
func Delay(client *rpcclient.Client, ms int64) error {
	report, err := client.Run(protocol.NewDelayRequest(ms))
	if err != nil {
		return err
	}
	return decodeFailure(report)
}

// Sequence issues a SEQUENCE request wrapping each of tasks as a nested
// request object and decodes the report for failure only.
func Sequence(client *rpcclient.Client, tasks ...*protocol.Request) error {
	report, err := client.Run(protocol.NewSequenceRequest(tasks...))
	if err != nil {
		return err
	}
	return decodeFailure(report)
}
