package domain

import "testing"

func TestTableNames(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"subscription", Subscription{}.TableName(), "subscriptions"},
		{"tracked username", TrackedUsername{}.TableName(), "tracked_usernames"},
		{"daily problem", DailyProblem{}.TableName(), "daily_problems"},
		{"completion", Completion{}.TableName(), "completions"},
		{"sent message", SentMessage{}.TableName(), "sent_messages"},
		{"user streak", UserStreak{}.TableName(), "user_streaks"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s table = %q, want %q", tc.name, tc.got, tc.want)
		}
	}
}

func TestCompletionOptionalSubmissionURL(t *testing.T) {
	c := Completion{Date: "2024-06-11", Username: "alice", Completed: false}
	if c.SubmissionURL != nil {
		t.Fatalf("zero-value completion should have nil submission URL")
	}
	u := "https://leetcode.com/submissions/detail/123/"
	c.Completed = true
	c.SubmissionURL = &u
	if c.SubmissionURL == nil || *c.SubmissionURL != u {
		t.Fatalf("submission URL round-trip failed: %+v", c)
	}
}

func TestUserStreakZeroValue(t *testing.T) {
	s := UserStreak{Username: "alice"}
	if s.Current != 0 || s.Max != 0 || s.LastDate != nil {
		t.Fatalf("zero-value streak must start at 0/0 with no last date: %+v", s)
	}
}
