// ABOUTME: Channel layout types
// ABOUTME: Ordered description of a stream's output channels
package sio

// ChannelID identifies the speaker position of one channel.
type ChannelID int

const (
	ChannelInvalid ChannelID = iota
	ChannelFrontLeft
	ChannelFrontRight
	ChannelFrontCenter
	ChannelLFE
	ChannelBackLeft
	ChannelBackRight
	ChannelSideLeft
	ChannelSideRight
)

// String returns the conventional channel abbreviation.
func (c ChannelID) String() string {
	switch c {
	case ChannelFrontLeft:
		return "FL"
	case ChannelFrontRight:
		return "FR"
	case ChannelFrontCenter:
		return "FC"
	case ChannelLFE:
		return "LFE"
	case ChannelBackLeft:
		return "BL"
	case ChannelBackRight:
		return "BR"
	case ChannelSideLeft:
		return "SL"
	case ChannelSideRight:
		return "SR"
	}
	return "?"
}

// ChannelLayout is an ordered description of a stream's output channels.
type ChannelLayout struct {
	Name     string
	Channels []ChannelID
}

// ChannelCount returns the number of channels in the layout.
func (l ChannelLayout) ChannelCount() int {
	return len(l.Channels)
}

// LayoutMono returns a single-channel layout.
func LayoutMono() ChannelLayout {
	return ChannelLayout{
		Name:     "Mono",
		Channels: []ChannelID{ChannelFrontCenter},
	}
}

// LayoutStereo returns the standard two-channel layout.
func LayoutStereo() ChannelLayout {
	return ChannelLayout{
		Name:     "Stereo",
		Channels: []ChannelID{ChannelFrontLeft, ChannelFrontRight},
	}
}

// Layout5Point1 returns the 5.1 surround layout.
func Layout5Point1() ChannelLayout {
	return ChannelLayout{
		Name: "5.1",
		Channels: []ChannelID{
			ChannelFrontLeft, ChannelFrontRight, ChannelFrontCenter,
			ChannelLFE, ChannelBackLeft, ChannelBackRight,
		},
	}
}

// LayoutForChannels returns a builtin layout matching the channel count,
// falling back to an unnamed layout of front channels.
func LayoutForChannels(count int) ChannelLayout {
	switch count {
	case 1:
		return LayoutMono()
	case 2:
		return LayoutStereo()
	case 6:
		return Layout5Point1()
	}
	channels := make([]ChannelID, count)
	for i := range channels {
		channels[i] = ChannelInvalid
	}
	return ChannelLayout{Channels: channels}
}
