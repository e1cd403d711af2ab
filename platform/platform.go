// Package platform decides, at call time, which transport the current host
// can drive. Go has no ambient DOM or mobile runtime, so the embedding
// runtime (a wasm shim, a gomobile binding, or a test fake) supplies its
// capabilities through the Host interface.
package platform

// OS identifiers reported by Host.OS. Anything else is treated as web.
const (
	OSIOS     = "ios"
	OSAndroid = "android"
	OSWeb     = "web"
)

// CredentialApple is the only provider with first-party native credential
// issuance today.
const CredentialApple = "apple"

// Host exposes the ambient capabilities of the current runtime. Probes may
// panic (broken shims do); Detect swallows panics and treats the capability
// as absent.
type Host interface {
	// OS names the underlying operating system: "ios", "android" or "web".
	OS() string
	// Windowed reports whether DOM window primitives (popup, message events)
	// are available.
	Windowed() bool
	// Embedded reports whether the host is a native shell with an in-app
	// authenticated browser session API.
	Embedded() bool
	// HasCredential reports whether a native credential capability exists
	// for the named provider.
	HasCredential(provider string) bool
}

// Info is the verdict for one call. It is recomputed fresh every time —
// host capability can change between calls in test harnesses, so nothing
// here is cached.
type Info struct {
	IsIOS                    bool
	IsAndroid                bool
	IsWeb                    bool
	IsEmbedded               bool
	SupportsNativeCredential bool
}

// Detect probes the host and returns its capabilities. A nil host and any
// panicking probe degrade to web defaults rather than propagating.
func Detect(h Host) Info {
	if h == nil {
		return Info{IsWeb: true}
	}
	var info Info
	osName := probeString(h.OS)
	switch osName {
	case OSIOS:
		info.IsIOS = true
	case OSAndroid:
		info.IsAndroid = true
	}
	info.IsEmbedded = probeBool(h.Embedded)
	windowed := probeBool(h.Windowed)
	info.IsWeb = windowed || (!info.IsIOS && !info.IsAndroid)
	if info.IsIOS && !windowed {
		info.SupportsNativeCredential = probeBool(func() bool { return h.HasCredential(CredentialApple) })
	}
	return info
}

func probeString(f func() string) (s string) {
	defer func() { _ = recover() }()
	return f()
}

func probeBool(f func() bool) (b bool) {
	defer func() { _ = recover() }()
	return f()
}
