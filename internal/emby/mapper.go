package emby

import "github.com/mmcdole/iplay/internal/domain"

// MapAlbums converts view items to albums
func MapAlbums(items []Item) []domain.Album {
	albums := make([]domain.Album, 0, len(items))
	for _, item := range items {
		albums = append(albums, mapAlbum(item))
	}
	return albums
}

func mapAlbum(item Item) domain.Album {
	return domain.Album{
		ID:             item.ID,
		Name:           item.Name,
		CollectionType: item.CollectionType,
		PrimaryTag:     item.ImageTags.Primary,
	}
}

// MapMediaItems converts Emby items to domain media items
func MapMediaItems(items []Item) []domain.MediaItem {
	out := make([]domain.MediaItem, 0, len(items))
	for _, item := range items {
		out = append(out, mapMediaItem(item))
	}
	return out
}

func mapMediaItem(item Item) domain.MediaItem {
	m := domain.MediaItem{
		ID:              item.ID,
		Name:            item.Name,
		Type:            item.Type,
		Overview:        item.Overview,
		ProductionYear:  item.ProductionYear,
		RunTimeTicks:    item.RunTimeTicks,
		CommunityRating: item.CommunityRating,
		SeriesName:      item.SeriesName,
		ParentID:        item.ParentID,
		PrimaryTag:      item.ImageTags.Primary,
	}
	if len(item.BackdropImageTags) > 0 {
		m.BackdropTag = item.BackdropImageTags[0]
	}
	return m
}

func mapPerson(item Item) *domain.PersonRecord {
	return &domain.PersonRecord{
		ID:         item.ID,
		Name:       item.Name,
		Overview:   item.Overview,
		PrimaryTag: item.ImageTags.Primary,
	}
}

func mapPlaybackInfo(resp PlaybackInfoResponse) *domain.PlaybackInfo {
	info := &domain.PlaybackInfo{
		PlaySessionID: resp.PlaySessionID,
		MediaSources:  make([]domain.MediaSource, 0, len(resp.MediaSources)),
	}
	for _, src := range resp.MediaSources {
		info.MediaSources = append(info.MediaSources, domain.MediaSource{
			ID:                   src.ID,
			Container:            src.Container,
			Protocol:             src.Protocol,
			Size:                 src.Size,
			Bitrate:              src.Bitrate,
			SupportsDirectPlay:   src.SupportsDirectPlay,
			SupportsDirectStream: src.SupportsDirectStream,
			SupportsTranscoding:  src.SupportsTranscoding,
			DirectStreamURL:      src.DirectStreamURL,
			TranscodingURL:       src.TranscodingURL,
		})
	}
	return info
}
