// Package gpio implements the remote GPIO proxies of spec.md §4.E: thin
// local objects whose methods are RPCs against the MCU, split by
// capability the way original_source's gpi.hpp/gpo.hpp do — state() on
// both, SetState() only where the direction is OUT.
package gpio

import (
	"github.com/fedddot/mcu-client-go/protocol"
	"github.com/fedddot/mcu-client-go/rpcclient"
)

// Reader is the capability shared by every GPIO proxy: query its current
// logical level.
type Reader interface {
	State() (protocol.State, error)
}

// Writer is a Reader that can also be driven to a level.
type Writer interface {
	Reader
	SetState(protocol.State) error
}

// InputProxy is a remote GPI. Construction issues CREATE_GPIO with
// direction IN; Close issues DELETE_GPIO best-effort.
type InputProxy struct {
	id     int64
	client *rpcclient.Client
}

// NewInputProxy constructs a GPI proxy for gpioID over client, issuing
// the CREATE_GPIO RPC synchronously.
func NewInputProxy(client *rpcclient.Client, gpioID int64) (*InputProxy, error) {
	req := protocol.NewCreateGPIORequest(gpioID, protocol.DirectionIn)
	report, err := client.Run(req)
	if err != nil {
		return nil, err
	}
	if err := decodeFailure(report); err != nil {
		return nil, err
	}
	return &InputProxy{id: gpioID, client: client}, nil
}

// State issues GET_GPIO and returns the decoded level.
func (p *InputProxy) State() (protocol.State, error) {
	return getState(p.client, p.id)
}

// Close issues DELETE_GPIO best-effort; any RPC or remote failure is
// swallowed, per spec.md §7's destructor policy.
func (p *InputProxy) Close() {
	deleteGPIO(p.client, p.id)
}

// OutputProxy is a remote GPO. Construction issues CREATE_GPIO with
// direction OUT; Close issues DELETE_GPIO best-effort.
type OutputProxy struct {
	id     int64
	client *rpcclient.Client
}

// NewOutputProxy constructs a GPO proxy for gpioID over client, issuing
// the CREATE_GPIO RPC synchronously.
func NewOutputProxy(client *rpcclient.Client, gpioID int64) (*OutputProxy, error) {
	req := protocol.NewCreateGPIORequest(gpioID, protocol.DirectionOut)
	report, err := client.Run(req)
	if err != nil {
		return nil, err
	}
	if err := decodeFailure(report); err != nil {
		return nil, err
	}
	return &OutputProxy{id: gpioID, client: client}, nil
}

// State issues GET_GPIO and returns the decoded level.
func (p *OutputProxy) State() (protocol.State, error) {
	return getState(p.client, p.id)
}

// SetState issues SET_GPIO with the requested level; the report is
// decoded for failure only.
func (p *OutputProxy) SetState(s protocol.State) error {
	req := protocol.NewSetGPIORequest(p.id, s)
	report, err := p.client.Run(req)
	if err != nil {
		return err
	}
	return decodeFailure(report)
}

// Close issues DELETE_GPIO best-effort.
func (p *OutputProxy) Close() {
	deleteGPIO(p.client, p.id)
}

func getState(client *rpcclient.Client, id int64) (protocol.State, error) {
	req := protocol.NewGetGPIORequest(id)
	report, err := client.Run(req)
	if err != nil {
		return 0, err
	}
	if err := decodeFailure(report); err != nil {
		return 0, err
	}
	s, ok := protocol.GpioState(report)
	if !ok {
		return 0, newRemoteFailureError("report missing gpio_state")
	}
	return s, nil
}

func deleteGPIO(client *rpcclient.Client, id int64) {
	req := protocol.NewDeleteGPIORequest(id)
	client.Run(req)
}

// decodeFailure is the shared report-decoding helper of spec.md §4.E:
// inspect result, and if nonzero raise RemoteFailure carrying what if
// present.
func decodeFailure(report *protocol.Report) error {
	result, ok := protocol.Result(report)
	if !ok {
		return newRemoteFailureError("report missing result")
	}
	if result == 0 {
		return nil
	}
	what, ok := protocol.What(report)
	if !ok {
		what = "remote operation failed"
	}
	return newRemoteFailureErrorWithCode(result, what)
}
