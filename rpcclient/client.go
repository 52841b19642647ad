// Package rpcclient implements the synchronous request/reply client from
// spec.md §4.D: one outbound request correlates with exactly one inbound
// frame on top of a transport.Connection.
package rpcclient

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fedddot/mcu-client-go/protocol"
	"github.com/fedddot/mcu-client-go/transport"
)

// Client issues one request at a time against a Connection it does not
// own; the connection must outlive the client, per spec.md §3.
type Client struct {
	conn  *transport.Connection
	codec protocol.JSONCodec
	log   *logrus.Entry
}

// New returns a Client bound to conn. conn is not taken ownership of;
// the caller is responsible for its lifecycle.
func New(conn *transport.Connection) *Client {
	return &Client{
		conn: conn,
		log:  logrus.WithField("component", "rpcclient.Client"),
	}
}

// Run sends request, waits for the single corresponding reply frame, and
// decodes it. Concurrent calls on the same Client are disallowed by
// spec.md §4.D; callers must serialize their own use of a Client.
func (c *Client) Run(request *protocol.Request) (*protocol.Report, error) {
	id := uuid.New()
	log := c.log.WithField("rpc_id", id)

	wire, err := c.codec.Serialize(protocol.ObjectValue(request))
	if err != nil {
		return nil, err
	}
	log.WithField("request", string(wire)).Debug("rpc: sending request")

	if err := c.conn.Send(wire); err != nil {
		return nil, err
	}

	if !c.conn.Readable() {
		if err := c.conn.Err(); err != nil {
			return nil, err
		}
		return nil, newTimeoutError()
	}

	frame, err := c.conn.Read()
	if err != nil {
		return nil, err
	}
	log.WithField("reply", string(frame)).Debug("rpc: received reply")

	v, err := c.codec.Parse(frame)
	if err != nil {
		return nil, err
	}
	report, ok := v.AsObject()
	if !ok {
		return nil, newMalformedReportError()
	}
	return report, nil
}
