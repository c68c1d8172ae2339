package gohamt

import (
	"math/rand"
	"testing"
)


func TestNewIsEmpty(t *testing.T) {
	m := New[int64, int](Int64Hasher{})

	if !m.IsEmpty() { t.Errorf("fresh map should be empty") }
	if m.Count() != 0 { t.Errorf("fresh map count = %d, want 0", m.Count()) }

	if _, ok := m.TryFind(1); ok {
		t.Errorf("TryFind on empty map should report absent")
	}
}

func TestAddReplacesExistingValueWithoutChangingCount(t *testing.T) {
	m := New[int64, int](Int64Hasher{})
	m = m.Add(1, 10)
	m = m.Add(1, 20)

	if m.Count() != 1 { t.Errorf("Count() = %d, want 1", m.Count()) }

	v, ok := m.TryFind(1)
	if !ok || v != 20 { t.Errorf("TryFind(1) = (%d, %v), want (20, true)", v, ok) }
}

func TestAddDoesNotMutateReceiver(t *testing.T) {
	m1 := New[int64, int](Int64Hasher{}).Add(1, 100)
	m2 := m1.Add(2, 200)

	if m1.Count() != 1 { t.Errorf("m1.Count() = %d, want 1", m1.Count()) }
	if _, ok := m1.TryFind(2); ok { t.Errorf("m1 should not observe m2's insert") }

	if m2.Count() != 2 { t.Errorf("m2.Count() = %d, want 2", m2.Count()) }
}

func TestRemoveAbsentKeyIsNoop(t *testing.T) {
	m := New[int64, int](Int64Hasher{}).Add(1, 1)
	after := m.Remove(99)

	if after.Count() != m.Count() { t.Errorf("count changed removing an absent key") }
	if !after.Equal(m, nil) { t.Errorf("removing an absent key should yield an equal map") }
}

func TestRemoveIsIdempotent(t *testing.T) {
	m := New[int64, int](Int64Hasher{}).Add(1, 1).Add(2, 2)

	once := m.Remove(1)
	twice := once.Remove(1)

	if once.Count() != twice.Count() { t.Errorf("count differs between one and two removes") }
	if !once.Equal(twice, nil) { t.Errorf("remove(remove(r,k),k) should equal remove(r,k)") }
}

func TestOfSliceMatchesSequentialAdd(t *testing.T) {
	items := []Pair[int64, int]{{Key: 1, Value: 1}, {Key: -1, Value: 2}, {Key: 0, Value: 3}, {Key: 32, Value: 4}}

	bulk := OfSlice[int64, int](Int64Hasher{}, items)

	sequential := New[int64, int](Int64Hasher{})
	for _, item := range items {
		sequential = sequential.Add(item.Key, item.Value)
	}

	if bulk.Count() != sequential.Count() {
		t.Fatalf("bulk count = %d, sequential count = %d", bulk.Count(), sequential.Count())
	}

	if !bulk.Equal(sequential, nil) {
		t.Errorf("OfSlice result should equal the same sequence folded through Add")
	}
}

func TestRangeVisitsEveryEntryExactlyOnce(t *testing.T) {
	m := New[int64, int](Int64Hasher{})
	want := map[int64]int{}

	for i := int64(0); i < 500; i++ {
		m = m.Add(i, int(i)*2)
		want[i] = int(i) * 2
	}

	seen := map[int64]int{}
	visits := 0
	m.Range(func(k int64, v int) bool {
		seen[k] = v
		visits++
		return true
	})

	if visits != len(want) {
		t.Fatalf("Range made %d visits, want %d", visits, len(want))
	}

	if len(seen) != len(want) {
		t.Fatalf("Range visited %d entries, want %d", len(seen), len(want))
	}

	for k, v := range want {
		if seen[k] != v {
			t.Errorf("Range yielded (%d, %d), want (%d, %d)", k, seen[k], k, v)
		}
	}
}


//============================================= Concrete end-to-end scenarios


func TestScenario1TwoKeysShareLowHashBits(t *testing.T) {
	m := New[int64, int](Int64Hasher{}).Add(0, 5).Add(-1, 6)

	assertMapHas(t, m, map[int64]int{0: 5, -1: 6})
	if m.Count() != 2 { t.Errorf("Count() = %d, want 2", m.Count()) }
}

func TestScenario2CollisionLeafContraction(t *testing.T) {
	m := New[int64, int](Int64Hasher{}).Add(1, 0).Add(-1, 0).Add(0, 0)
	m = m.Remove(0)

	assertMapHas(t, m, map[int64]int{1: 0, -1: 0})
	if m.Count() != 2 { t.Errorf("Count() = %d, want 2", m.Count()) }
}

func TestScenario3RemoveAbsentLeavesSinglePair(t *testing.T) {
	m := New[int64, int](Int64Hasher{}).Add(0, 0)
	m = m.Remove(1)

	assertMapHas(t, m, map[int64]int{0: 0})
	if m.Count() != 1 { t.Errorf("Count() = %d, want 1", m.Count()) }
}

func TestScenario4AddThenRemoveYieldsEmpty(t *testing.T) {
	m := New[int64, int](Int64Hasher{}).Add(1, 0)
	m = m.Remove(1)

	if !m.IsEmpty() { t.Errorf("expected empty map") }
	if m.Count() != 0 { t.Errorf("Count() = %d, want 0", m.Count()) }
}

func TestScenario5LargeSequentialBuildLookupAgreement(t *testing.T) {
	const n = 100_000

	m := New[int64, int](Int64Hasher{})
	for i := int64(0); i < n; i++ {
		m = m.Add(i, int(i))
	}

	if m.Count() != n { t.Fatalf("Count() = %d, want %d", m.Count(), n) }

	for i := int64(0); i < n; i++ {
		v, ok := m.TryFind(i)
		if !ok || v != int(i) {
			t.Fatalf("TryFind(%d) = (%d, %v), want (%d, true)", i, v, ok, i)
		}
	}
}

func TestScenario6FirstLevelConflictAmongThreeKeys(t *testing.T) {
	m := New[int64, int](Int64Hasher{}).Add(32, 0).Add(1, 0).Add(0, 0)

	assertMapHas(t, m, map[int64]int{32: 0, 1: 0, 0: 0})
	if m.Count() != 3 { t.Errorf("Count() = %d, want 3", m.Count()) }
}


//============================================= Oracle-driven property test


func TestAddRemoveAgreesWithReferenceMap(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	m := New[int64, int](Int64Hasher{})
	oracle := map[int64]int{}

	const steps = 5000
	const keySpace = 300

	for step := 0; step < steps; step++ {
		key := int64(rng.Intn(keySpace))

		if rng.Intn(3) == 0 {
			m = m.Remove(key)
			delete(oracle, key)
		} else {
			value := rng.Intn(1_000_000)
			m = m.Add(key, value)
			oracle[key] = value
		}

		if m.Count() != len(oracle) {
			t.Fatalf("step %d: Count() = %d, want %d", step, m.Count(), len(oracle))
		}
	}

	for key, value := range oracle {
		got, ok := m.TryFind(key)
		if !ok || got != value {
			t.Fatalf("TryFind(%d) = (%d, %v), want (%d, true)", key, got, ok, value)
		}
	}

	seen := map[int64]int{}
	m.Range(func(k int64, v int) bool {
		seen[k] = v
		return true
	})

	if len(seen) != len(oracle) {
		t.Fatalf("Range produced %d entries, want %d", len(seen), len(oracle))
	}

	for k, v := range oracle {
		if seen[k] != v {
			t.Fatalf("Range entry (%d, %d) disagrees with oracle value %d", k, seen[k], v)
		}
	}
}


//============================================= Test helpers


func assertMapHas(t *testing.T, m *Map[int64, int, Int64Hasher], want map[int64]int) {
	t.Helper()

	for k, v := range want {
		got, ok := m.TryFind(k)
		if !ok || got != v {
			t.Errorf("TryFind(%d) = (%d, %v), want (%d, true)", k, got, ok, v)
		}
	}

	seen := map[int64]int{}
	m.Range(func(k int64, v int) bool {
		seen[k] = v
		return true
	})

	if len(seen) != len(want) {
		t.Fatalf("map holds %d entries, want %d", len(seen), len(want))
	}
}
