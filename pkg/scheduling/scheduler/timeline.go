package scheduler

import "container/heap"

// timeline orders scheduled tasks by time, then by scheduling order.
// It is not safe for concurrent use; schedulers guard it with their mutex.
type timeline struct {
	tasks taskHeap
	seq   uint64
}

func (tl *timeline) add(st *ScheduledTask) {
	st.seq = tl.seq
	tl.seq++
	heap.Push(&tl.tasks, st)
}

func (tl *timeline) remove(st *ScheduledTask) {
	if st.index >= 0 && st.index < len(tl.tasks) && tl.tasks[st.index] == st {
		heap.Remove(&tl.tasks, st.index)
	}
}

func (tl *timeline) peek() *ScheduledTask {
	if len(tl.tasks) == 0 {
		return nil
	}
	return tl.tasks[0]
}

// popDue removes and returns the earliest task if it is due at or before t.
func (tl *timeline) popDue(t Time) *ScheduledTask {
	next := tl.peek()
	if next == nil || next.time > t {
		return nil
	}
	return heap.Pop(&tl.tasks).(*ScheduledTask)
}

func (tl *timeline) len() int {
	return len(tl.tasks)
}

func (tl *timeline) clear() []*ScheduledTask {
	tasks := tl.tasks
	for _, st := range tasks {
		st.index = -1
	}
	tl.tasks = nil
	return tasks
}

type taskHeap []*ScheduledTask

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	st := x.(*ScheduledTask)
	st.index = len(*h)
	*h = append(*h, st)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	st := old[n-1]
	old[n-1] = nil
	st.index = -1
	*h = old[:n-1]
	return st
}
