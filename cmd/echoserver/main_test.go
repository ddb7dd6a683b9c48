package main

import "testing"

func TestBroadcastFromSkipsSenderAndReachesOthers(t *testing.T) {
	reg := newRegistry()
	a := &client{out: make(chan []byte, 4)}
	b := &client{out: make(chan []byte, 4)}
	c := &client{out: make(chan []byte, 4)}
	reg.add(a)
	reg.add(b)
	reg.add(c)

	reg.broadcastFrom(a, []byte("hello"))

	select {
	case msg := <-b.out:
		if string(msg) != "hello" {
			t.Fatalf("b got %q, want hello", msg)
		}
	default:
		t.Fatal("b should have received the broadcast")
	}
	select {
	case msg := <-c.out:
		if string(msg) != "hello" {
			t.Fatalf("c got %q, want hello", msg)
		}
	default:
		t.Fatal("c should have received the broadcast")
	}
	select {
	case <-a.out:
		t.Fatal("sender should not receive its own broadcast")
	default:
	}
}

func TestRemoveClosesOutChannelAndDrops(t *testing.T) {
	reg := newRegistry()
	a := &client{out: make(chan []byte, 1)}
	reg.add(a)
	reg.remove(a)

	if _, ok := <-a.out; ok {
		t.Fatal("expected a.out to be closed after remove")
	}
	if len(reg.clients) != 0 {
		t.Fatalf("expected empty registry after remove, got %d", len(reg.clients))
	}
}

func TestBroadcastDropsForFullSlowClient(t *testing.T) {
	reg := newRegistry()
	a := &client{out: make(chan []byte, 4)}
	slow := &client{out: make(chan []byte, 1)}
	reg.add(a)
	reg.add(slow)

	slow.out <- []byte("fill")
	reg.broadcastFrom(a, []byte("dropped"))

	if len(slow.out) != 1 {
		t.Fatalf("expected slow client's buffer to stay at 1 (message dropped), got %d", len(slow.out))
	}
}
