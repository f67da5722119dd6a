package e2e

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testChatScenarioSuite struct {
	BaseWsSuite
}

func TestChatScenarioSuite(t *testing.T) {
	suite.Run(t, &testChatScenarioSuite{})
}

func (s *testChatScenarioSuite) TestTwoClientsChatFlow() {
	chatID := uuid.NewString()
	aliceID := "e2e-alice-" + uuid.NewString()
	bobID := "e2e-bob-" + uuid.NewString()

	alice := s.DialWS("Connect alice", aliceID)
	defer alice.Close()
	bob := s.DialWS("Connect bob", bobID)
	defer bob.Close()

	// --- STEP 1: PRESENCE ---
	s.Run("Step 1: Joined declarations propagate scoped presence", func() {
		alice.Send("CHAT_JOINED", map[string]any{"members": []string{bobID}})

		frame := alice.Expect("ONLINE_USERS", 5*time.Second)
		s.Require().JSONEq(s.users(aliceID), string(frame.Data))
		frame = bob.Expect("ONLINE_USERS", 5*time.Second)
		s.Require().JSONEq(s.users(aliceID), string(frame.Data))

		bob.Send("CHAT_JOINED", map[string]any{"members": []string{aliceID}})
		alice.Expect("ONLINE_USERS", 5*time.Second)
		bob.Expect("ONLINE_USERS", 5*time.Second)
	})

	// --- STEP 2: MESSAGE FAN-OUT ---
	s.Run("Step 2: A submission reaches every member, alert included", func() {
		alice.Send("NEW_MESSAGE", map[string]any{
			"chatId":  chatID,
			"members": []string{aliceID, bobID},
			"message": "hello from the end to end suite",
		})

		frame := bob.Expect("NEW_MESSAGE", 5*time.Second)
		var payload struct {
			ChatID  string `json:"chatId"`
			Message struct {
				Content string `json:"content"`
				Sender  struct {
					ID string `json:"_id"`
				} `json:"sender"`
			} `json:"message"`
		}
		s.Require().NoError(json.Unmarshal(frame.Data, &payload))
		s.Require().Equal(chatID, payload.ChatID)
		s.Require().Equal("hello from the end to end suite", payload.Message.Content)
		s.Require().Equal(aliceID, payload.Message.Sender.ID)

		bob.Expect("NEW_MESSAGE_ALERT", 5*time.Second)
		alice.Expect("NEW_MESSAGE", 5*time.Second)
		alice.Expect("NEW_MESSAGE_ALERT", 5*time.Second)
	})

	// --- STEP 3: MALFORMED EVENT ---
	s.Run("Step 3: A malformed submission gets an explicit error reply", func() {
		alice.Send("NEW_MESSAGE", map[string]any{"chatId": chatID})
		alice.Expect("ERROR", 5*time.Second)
	})

	// --- STEP 4: DISCONNECT ---
	s.Run("Step 4: A disconnect updates the remaining member's presence", func() {
		alice.Close()
		frame := bob.Expect("ONLINE_USERS", 5*time.Second)
		s.Require().JSONEq(s.users(bobID), string(frame.Data))
	})
}

func (s *testChatScenarioSuite) users(ids ...string) string {
	body, err := json.Marshal(map[string]any{"users": ids})
	s.Require().NoError(err)
	return string(body)
}
