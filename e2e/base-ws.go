package e2e

import (
	"chat-hub/auth"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

// BaseWsSuite dials authenticated websocket clients against a running
// gateway. It runs only when SERVER_ADDR is set; unit tests cover the
// same flows in-process.
type BaseWsSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseWsSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.ServerAddr == "" {
		s.T().Skip("SERVER_ADDR not set, skipping end to end suite")
	}
}

type wsFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client is one authenticated connection driven by the suite.
type Client struct {
	conn  *websocket.Conn
	suite *BaseWsSuite
}

// DialWS mints a token for the identity and opens a connection, with a
// colorized header per step in logs.
func (s *BaseWsSuite) DialWS(name string, identity string) *Client {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	token, err := auth.GenerateToken(identity, identity, time.Hour)
	s.Require().NoError(err)

	url := fmt.Sprintf("ws://%s/ws?token=%s", s.Config.ServerAddr, token)
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err, "Failed to connect to gateway at "+s.Config.ServerAddr)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return &Client{conn: conn, suite: s}
}

func (c *Client) Close() {
	_ = c.conn.Close()
}

// Send pushes one event frame to the gateway.
func (c *Client) Send(event string, data any) {
	raw, err := json.Marshal(data)
	c.suite.Require().NoError(err)

	frame := wsFrame{Event: event, Data: raw}
	if c.suite.Config.DebugJSON {
		body, _ := json.MarshalIndent(frame, "", "  ")
		c.suite.T().Logf("SEND:\n%s", body)
	}
	c.suite.Require().NoError(c.conn.WriteJSON(frame))
}

// Expect reads the next frame and asserts its event name.
func (c *Client) Expect(event string, timeout time.Duration) wsFrame {
	c.suite.Require().NoError(c.conn.SetReadDeadline(time.Now().Add(timeout)))

	var frame wsFrame
	c.suite.Require().NoError(c.conn.ReadJSON(&frame), "Expected a %s frame", event)
	if c.suite.Config.DebugJSON {
		body, _ := json.MarshalIndent(frame, "", "  ")
		c.suite.T().Logf("RECV:\n%s", body)
	}
	c.suite.Require().Equal(event, frame.Event)
	return frame
}
