package roster

import (
	"fmt"
	"math/rand"
)

// usernames is the fixed pool AI identities are drawn from, without
// replacement within one roster or leaderboard generation.
var usernames = []string{
	"ClickWizard", "TapTitan", "xX_Finger_Xx", "NotABot42", "PixelPuncher",
	"RapidRaptor", "Clickzilla", "ZoomerThumbs", "StealthTapper", "MouseMoose",
	"TurboTaps", "LagSpike", "OneTrickClick", "CtrlFreak", "DoubleClicker",
	"WristReaper", "CarpalCrusher", "SpeedyGonzo", "BlinkAndMiss", "FramePerfect",
	"SilentSpammer", "ClickbaitKing", "TapDancer", "FullSendFred", "NoScopeNora",
	"QuickQuokka", "MashMaster", "ButtonBasher", "HyperHamster", "ClutchCactus",
	"PingAbuser", "SweatyPalms", "AFKAndy", "TiltedTeapot", "CooldownCarl",
	"MetaMantis", "SmurfSuspect", "EloElk", "RankedRhino", "DivOneDreamer",
	"PlacementPete", "GrindGoblin", "PeakPanda", "DerankDanny", "ResetRegret",
	"SeasonalSam", "RewardReaper", "TitleHunter", "GlowGetter", "CapsLockCarol",
	"WarmupWally", "TryhardTina", "CasualKevin", "QueueQueen", "LobbyLurker",
	"ScrimShrimp", "VodReview", "CoachedOnce", "FreeWinFiona", "LastSecondLeo",
}

// flavorTitles are the non-seasonal cosmetic titles AI players can carry.
var flavorTitles = []string{
	"CLICKER",
	"SPEED DEMON",
	"RAPID FIRE",
	"CLICK MASTER",
	"FINGER FURY",
}

// PoolSize reports how many unique AI usernames are available.
func PoolSize() int {
	return len(usernames)
}

// UniqueNames draws n distinct usernames from the pool.
func UniqueNames(rng *rand.Rand, n int) ([]string, error) {
	if n > len(usernames) {
		return nil, fmt.Errorf("%w: need %d names, pool has %d", ErrNamePoolExhausted, n, len(usernames))
	}
	order := rng.Perm(len(usernames))
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = usernames[order[i]]
	}
	return names, nil
}
