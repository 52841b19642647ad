package stepmotor_test

import (
	"testing"
	"time"

	"github.com/fedddot/mcu-client-go/framing"
	"github.com/fedddot/mcu-client-go/gpio"
	"github.com/fedddot/mcu-client-go/protocol"
	"github.com/fedddot/mcu-client-go/rpcclient"
	"github.com/fedddot/mcu-client-go/serial"
	"github.com/fedddot/mcu-client-go/stepmotor"
	"github.com/fedddot/mcu-client-go/transport"
)

// mcuStub is a copy of gpio_test's loopback stub with a built-in
// responder, so the motor can be driven through the full RPC stack
// instead of against a bare proxy.
type mcuStub struct {
	port *serial.Port
	buf  *framing.Buffer
	stop chan struct{}
	done chan struct{}

	codec  protocol.JSONCodec
	states map[int64]protocol.State
}

func startStub(t *testing.T, port *serial.Port, head, tail string) *mcuStub {
	t.Helper()
	s := &mcuStub{
		port:   port,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		states: make(map[int64]protocol.State),
	}
	s.buf = framing.New([]byte(head), []byte(tail), 4096, port.Write)
	go s.run()
	return s
}

func (s *mcuStub) run() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		default:
		}
		data, err := s.port.ReadAvailable()
		if err != nil {
			return
		}
		if len(data) == 0 {
			continue
		}
		s.buf.Feed(data)
		for s.buf.Readable() {
			frame, _ := s.buf.Read()
			v, err := s.codec.Parse(frame)
			if err != nil {
				continue
			}
			reqObj, ok := v.AsObject()
			if !ok {
				continue
			}
			report := s.respond(reqObj)
			wire, err := s.codec.Serialize(protocol.ObjectValue(report))
			if err != nil {
				continue
			}
			s.buf.Send(wire)
		}
	}
}

// respond answers CREATE_GPIO/SET_GPIO/GET_GPIO/DELETE_GPIO the way a real
// MCU would for four independently addressed output pins, recording the
// last state set for each gpio_id so GET_GPIO reflects it back.
func (s *mcuStub) respond(req *protocol.Request) *protocol.Report {
	report := protocol.NewObject()
	ctorID, _ := req.Get(protocol.FieldCtorID)
	tag, _ := ctorID.AsInteger()

	switch tag {
	case protocol.TaskSetGPIO:
		idv, _ := req.Get(protocol.FieldGpioID)
		id, _ := idv.AsInteger()
		sv, _ := req.Get(protocol.FieldGpioState)
		i, _ := sv.AsInteger()
		s.states[id] = protocol.State(i)
	case protocol.TaskGetGPIO:
		idv, _ := req.Get(protocol.FieldGpioID)
		id, _ := idv.AsInteger()
		report.Set(protocol.FieldGpioState, protocol.Integer(int64(s.states[id])))
	}
	report.Set(protocol.FieldResult, protocol.Integer(0))
	return report
}

func (s *mcuStub) Stop() {
	close(s.stop)
	<-s.done
}

func rawSlave(t *testing.T, slave *serial.Port) {
	t.Helper()
	attrs, err := slave.GetAttr()
	if err != nil {
		t.Fatalf("slave.GetAttr: %v", err)
	}
	attrs.MakeRaw()
	if err := slave.SetAttr(serial.TCSANOW, attrs); err != nil {
		t.Fatalf("slave.SetAttr: %v", err)
	}
}

// loopbackMotor bundles a Motor with the four proxies driving it, so a
// test can read back each coil's remote state through the RPC stack
// instead of reaching into the Motor's unexported phase index.
type loopbackMotor struct {
	motor          *stepmotor.Motor
	lh, ll, rh, rl *gpio.OutputProxy
}

func (lm *loopbackMotor) states(t *testing.T) [4]protocol.State {
	t.Helper()
	var out [4]protocol.State
	for i, p := range []*gpio.OutputProxy{lm.lh, lm.ll, lm.rh, lm.rl} {
		s, err := p.State()
		if err != nil {
			t.Fatalf("proxy State: %v", err)
		}
		out[i] = s
	}
	return out
}

// newLoopbackMotor builds a stepmotor.Motor backed by four gpio.OutputProxy
// instances wired over a single loopback Connection to an mcuStub, so
// property 5 (four steps CW or CCW return the motor to its origin phase)
// is confirmed through the full RPC stack rather than against a bare Motor.
func newLoopbackMotor(t *testing.T) *loopbackMotor {
	t.Helper()
	master, slave, err := serial.OpenPTY(nil)
	if err != nil {
		t.Skipf("pty unavailable in this environment: %v", err)
	}
	rawSlave(t, slave)

	const head, tail = "MSG_HEADER", "MSG_TAIL"
	conn := transport.NewFromPort(master, []byte(head), []byte(tail), 4096, 2*time.Second)
	stub := startStub(t, slave, head, tail)
	client := rpcclient.New(conn)

	t.Cleanup(func() {
		stub.Stop()
		conn.Destroy()
		slave.Close()
	})

	lh, err := gpio.NewOutputProxy(client, 0)
	if err != nil {
		t.Fatalf("NewOutputProxy(lh): %v", err)
	}
	ll, err := gpio.NewOutputProxy(client, 1)
	if err != nil {
		t.Fatalf("NewOutputProxy(ll): %v", err)
	}
	rh, err := gpio.NewOutputProxy(client, 2)
	if err != nil {
		t.Fatalf("NewOutputProxy(rh): %v", err)
	}
	rl, err := gpio.NewOutputProxy(client, 3)
	if err != nil {
		t.Fatalf("NewOutputProxy(rl): %v", err)
	}
	t.Cleanup(func() {
		lh.Close()
		ll.Close()
		rh.Close()
		rl.Close()
	})

	m, err := stepmotor.New(lh, ll, rh, rl)
	if err != nil {
		t.Fatalf("stepmotor.New: %v", err)
	}
	return &loopbackMotor{motor: m, lh: lh, ll: ll, rh: rh, rl: rl}
}

// TestMotorOverRPCStepsReturnToOriginAfterFourSteps is spec.md's S7: four
// OutputProxys backed by a single loopback Connection to a scripted MCU
// stub, wired into a stepmotor.Motor, confirming property 5 (every run of
// four CW, or four CCW, steps lands back on the starting phase) through
// the full RPC stack rather than against a bare Motor.
func TestMotorOverRPCStepsReturnToOriginAfterFourSteps(t *testing.T) {
	lm := newLoopbackMotor(t)
	origin := lm.states(t)

	for round := 0; round < 16; round++ {
		for i := 0; i < 4; i++ {
			if err := lm.motor.Step(stepmotor.CW); err != nil {
				t.Fatalf("round %d step %d: Step(CW): %v", round, i, err)
			}
		}
		if got := lm.states(t); got != origin {
			t.Fatalf("round %d: states after 4xCW = %v, want origin %v", round, got, origin)
		}
	}

	for round := 0; round < 16; round++ {
		for i := 0; i < 4; i++ {
			if err := lm.motor.Step(stepmotor.CCW); err != nil {
				t.Fatalf("round %d step %d: Step(CCW): %v", round, i, err)
			}
		}
		if got := lm.states(t); got != origin {
			t.Fatalf("round %d: states after 4xCCW = %v, want origin %v", round, got, origin)
		}
	}
}

// TestMotorOverRPCAlternatingStepsLeavePhaseUnchanged drives 16 alternating
// CW/CCW round trips through the RPC stack, each of which must cancel out.
func TestMotorOverRPCAlternatingStepsLeavePhaseUnchanged(t *testing.T) {
	lm := newLoopbackMotor(t)
	origin := lm.states(t)

	for round := 0; round < 16; round++ {
		if err := lm.motor.Step(stepmotor.CW); err != nil {
			t.Fatalf("round %d: Step(CW): %v", round, err)
		}
		if err := lm.motor.Step(stepmotor.CCW); err != nil {
			t.Fatalf("round %d: Step(CCW): %v", round, err)
		}
		if got := lm.states(t); got != origin {
			t.Fatalf("round %d: states after CW+CCW = %v, want origin %v", round, got, origin)
		}
	}
}
