package engine

import (
	"maps"
	"slices"
)

// Wrapper is a model implementation that replaces a library class during
// analysis. Objects of wrapped classes are opaque to the storage machinery.
type Wrapper struct {
	// Class is the implementing class.
	Class string `yaml:"class"`
	// Kind names the model, e.g. "ListWrapper".
	Kind string `yaml:"kind"`
	// ValueType is the type of the produced object. Empty means the
	// requested type is kept.
	ValueType string `yaml:"valueType,omitempty"`
}

// WrapperTable maps wrapped class names to their wrappers. Several
// classes may share a wrapper, and every wrapper class wraps itself.
type WrapperTable map[string]Wrapper

const (
	overrides   = "org.utbot.engine.overrides."
	collections = overrides + "collections."
	streams     = overrides + "stream."
	threads     = overrides + "threads."
)

// DefaultWrappers returns the built-in wrapper table.
func DefaultWrappers() WrapperTable {
	var (
		stringBuilder = Wrapper{Class: overrides + "UtStringBuilder", Kind: "UtStringBuilderWrapper"}
		stringBuffer  = Wrapper{Class: overrides + "UtStringBuffer", Kind: "UtStringBufferWrapper"}
		str           = Wrapper{Class: overrides + "strings.UtString", Kind: "StringWrapper"}
		optional      = Wrapper{Class: collections + "UtOptional", Kind: "OptionalWrapper"}
		optionalInt   = Wrapper{Class: collections + "UtOptionalInt", Kind: "OptionalWrapper"}
		optionalLong  = Wrapper{Class: collections + "UtOptionalLong", Kind: "OptionalWrapper"}
		optionalDbl   = Wrapper{Class: collections + "UtOptionalDouble", Kind: "OptionalWrapper"}
		thread        = Wrapper{Class: threads + "UtThread", Kind: "ThreadWrapper"}
		threadGroup   = Wrapper{Class: threads + "UtThreadGroup", Kind: "ThreadGroupWrapper"}
		executor      = Wrapper{Class: threads + "UtExecutorService", Kind: "ExecutorServiceWrapper"}
		latch         = Wrapper{Class: threads + "UtCountDownLatch", Kind: "CountDownLatchWrapper"}
		future        = Wrapper{Class: threads + "UtCompletableFuture", Kind: "CompletableFutureWrapper"}
		arrayList     = Wrapper{Class: collections + "UtArrayList", Kind: "ListWrapper"}
		linkedList    = Wrapper{Class: collections + "UtLinkedList", Kind: "ListWrapper"}
		deque         = Wrapper{Class: collections + "UtLinkedListWithNullableCheck", Kind: "ListWrapper"}
		hashSet       = Wrapper{Class: collections + "UtHashSet", Kind: "SetWrapper"}
		hashMap       = Wrapper{Class: collections + "UtHashMap", Kind: "MapWrapper"}
		stream        = Wrapper{Class: streams + "UtStream", Kind: "CommonStreamWrapper"}
		intStream     = Wrapper{Class: streams + "UtIntStream", Kind: "IntStreamWrapper"}
		longStream    = Wrapper{Class: streams + "UtLongStream", Kind: "LongStreamWrapper"}
		doubleStream  = Wrapper{Class: streams + "UtDoubleStream", Kind: "DoubleStreamWrapper"}
		security      = Wrapper{Class: overrides + "security.UtSecurityManager", Kind: "SecurityManagerWrapper"}
	)
	as := func(w Wrapper, valueType string) Wrapper {
		w.ValueType = valueType
		return w
	}

	t := WrapperTable{
		"java.lang.StringBuilder":  stringBuilder,
		"java.lang.StringBuffer":   stringBuffer,
		"java.lang.CharSequence":   str,
		"java.lang.String":         str,
		"java.util.Optional":       optional,
		"java.util.OptionalInt":    optionalInt,
		"java.util.OptionalLong":   optionalLong,
		"java.util.OptionalDouble": optionalDbl,

		"java.lang.Thread":                                 thread,
		"java.lang.ThreadGroup":                            threadGroup,
		"java.util.concurrent.ExecutorService":             executor,
		"java.util.concurrent.ThreadPoolExecutor":          executor,
		"java.util.concurrent.ForkJoinPool":                executor,
		"java.util.concurrent.ScheduledThreadPoolExecutor": executor,
		"java.util.concurrent.CountDownLatch":              latch,
		"java.util.concurrent.CompletableFuture":           future,
		"java.util.concurrent.CompletionStage":             future,

		"java.util.List":                            as(arrayList, "java.util.ArrayList"),
		"java.util.AbstractList":                    as(arrayList, "java.util.ArrayList"),
		"java.util.ArrayList":                       as(arrayList, "java.util.ArrayList"),
		"java.util.concurrent.CopyOnWriteArrayList": arrayList,
		"java.util.LinkedList":                      as(linkedList, "java.util.LinkedList"),
		"java.util.AbstractSequentialList":          as(linkedList, "java.util.LinkedList"),

		"java.util.ArrayDeque":                       deque,
		"java.util.concurrent.ConcurrentLinkedDeque": deque,
		"java.util.concurrent.ConcurrentLinkedQueue": deque,
		"java.util.concurrent.LinkedBlockingDeque":   deque,
		"java.util.concurrent.LinkedBlockingQueue":   deque,

		"java.util.Set":           as(hashSet, "java.util.LinkedHashSet"),
		"java.util.AbstractSet":   as(hashSet, "java.util.LinkedHashSet"),
		"java.util.HashSet":       as(hashSet, "java.util.HashSet"),
		"java.util.LinkedHashSet": as(hashSet, "java.util.LinkedHashSet"),

		"java.util.Map":                          as(hashMap, "java.util.LinkedHashMap"),
		"java.util.AbstractMap":                  as(hashMap, "java.util.LinkedHashMap"),
		"java.util.LinkedHashMap":                as(hashMap, "java.util.LinkedHashMap"),
		"java.util.HashMap":                      as(hashMap, "java.util.HashMap"),
		"java.util.concurrent.ConcurrentHashMap": as(hashMap, "java.util.HashMap"),

		"java.util.stream.BaseStream":   as(stream, "java.util.stream.Stream"),
		"java.util.stream.Stream":       as(stream, "java.util.stream.Stream"),
		"java.util.stream.IntStream":    as(intStream, "java.util.stream.IntStream"),
		"java.util.stream.LongStream":   as(longStream, "java.util.stream.LongStream"),
		"java.util.stream.DoubleStream": as(doubleStream, "java.util.stream.DoubleStream"),

		"java.lang.SecurityManager": security,
	}

	// wrapper classes wrap themselves and produce the library type
	self := map[Wrapper]string{
		stringBuilder: "java.lang.StringBuilder",
		stringBuffer:  "java.lang.StringBuffer",
		str:           "java.lang.String",
		optional:      "java.util.Optional",
		optionalInt:   "java.util.OptionalInt",
		optionalLong:  "java.util.OptionalLong",
		optionalDbl:   "java.util.OptionalDouble",
		thread:        "java.lang.Thread",
		threadGroup:   "java.lang.ThreadGroup",
		executor:      "java.util.concurrent.ExecutorService",
		latch:         "java.util.concurrent.CountDownLatch",
		future:        "java.util.concurrent.CompletableFuture",
		arrayList:     "java.util.ArrayList",
		linkedList:    "java.util.LinkedList",
		deque:         "java.util.ArrayDeque",
		hashSet:       "java.util.HashSet",
		hashMap:       "java.util.HashMap",
		stream:        "java.util.stream.Stream",
		intStream:     "java.util.stream.IntStream",
		longStream:    "java.util.stream.LongStream",
		doubleStream:  "java.util.stream.DoubleStream",
		security:      "java.lang.SecurityManager",
	}
	for w, valueType := range self {
		t[w.Class] = as(w, valueType)
	}
	return t
}

// Lookup returns the wrapper for the class called name.
func (t WrapperTable) Lookup(name string) (Wrapper, bool) {
	w, ok := t[name]
	return w, ok
}

// IsWrapperClass reports whether name is the implementing class of a wrapper.
func (t WrapperTable) IsWrapperClass(name string) bool {
	for _, w := range t {
		if w.Class == name {
			return true
		}
	}
	return false
}

// WrappedBy returns the sorted names of the classes the wrapper class impl
// stands in for, impl itself included.
func (t WrapperTable) WrappedBy(impl string) []string {
	var out []string
	for _, name := range slices.Sorted(maps.Keys(t)) {
		if t[name].Class == impl {
			out = append(out, name)
		}
	}
	return out
}
